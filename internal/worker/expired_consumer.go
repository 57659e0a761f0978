package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nsqio/go-nsq"

	"hireloop/backend/features/delivery"
	"hireloop/backend/internal/middleware"
)

const sendTimeout = 30 * time.Second

// ExpiredConsumer delivers expiry emails for one topic. Errors are returned to
// NSQ so its retry policy applies; a message that exhausts maxAttempts is
// dead-lettered and dropped instead of looping forever.
type ExpiredConsumer struct {
	topic       string
	mailer      Mailer
	deadLetters DeadLetterStore
	maxAttempts uint16
}

func NewExpiredConsumer(topic string, mailer Mailer, deadLetters DeadLetterStore, maxAttempts int) *ExpiredConsumer {
	return &ExpiredConsumer{
		topic:       topic,
		mailer:      mailer,
		deadLetters: deadLetters,
		maxAttempts: uint16(maxAttempts),
	}
}

func (c *ExpiredConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var job DeliveryJob
	if err := json.Unmarshal(m.Body, &job); err != nil {
		// Poison pill: invalid JSON, don't retry.
		slog.Error("poison pill: invalid delivery payload", "topic", c.topic, "error", err)
		return nil
	}

	ctx := context.Background()
	if job.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, job.CorrelationID)
	}

	if err := job.Validate(); err != nil {
		slog.ErrorContext(ctx, "dropping malformed delivery job", "topic", c.topic, "name", job.Name, "error", err)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := c.mailer.Send(sendCtx, job); err != nil {
		if m.Attempts >= c.maxAttempts {
			slog.ErrorContext(ctx, "delivery exhausted retries, dead-lettering",
				"topic", c.topic, "name", job.Name, "attempts", m.Attempts, "error", err)

			fd := &delivery.FailedDelivery{
				Topic:    c.topic,
				Payload:  json.RawMessage(m.Body),
				Error:    err.Error(),
				Attempts: int(m.Attempts),
			}
			if saveErr := c.deadLetters.Save(ctx, fd); saveErr != nil {
				slog.ErrorContext(ctx, "failed to dead-letter delivery", "name", job.Name, "error", saveErr)
			}
			return nil
		}

		slog.WarnContext(ctx, "delivery failed, requeueing",
			"topic", c.topic, "name", job.Name, "attempt", m.Attempts, "error", err)
		return err
	}

	slog.InfoContext(ctx, "expiry notice delivered", "topic", c.topic, "name", job.Name)
	return nil
}
