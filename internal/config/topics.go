package config

const (
	// TopicJobExpired carries one delivery job per expired job posting.
	TopicJobExpired = "job-expired"

	// TopicBoostExpired carries one delivery job per expired boosted posting.
	TopicBoostExpired = "boostJob-expired"

	// ChannelMailer is the NSQ channel the mail worker consumes both topics on.
	ChannelMailer = "mailer"
)
