package boost

import (
	"time"

	"hireloop/backend/features/job"
)

type Status string

const (
	// StatusActive means the boost is live and the posting is ranked up.
	StatusActive Status = "active"

	// StatusInactive is the terminal state the sweep moves a boost into once
	// its paid window has elapsed.
	StatusInactive Status = "inactive"
)

// Boost is a paid promotion window on a job posting. It carries a denormalized
// job title so expiry processing never re-reads the posting.
type Boost struct {
	ID         int64          `json:"id"`
	JobID      int64          `json:"job_id"`
	JobTitle   string         `json:"job_title"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Status     Status         `json:"status"`
	Enterprise job.Enterprise `json:"enterprise"`
	CreatedAt  time.Time      `json:"created_at"`
}
