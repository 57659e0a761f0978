package worker

import (
	"context"

	"hireloop/backend/features/delivery"
)

// Mailer sends the expiry notice for one delivery job.
type Mailer interface {
	Send(ctx context.Context, job DeliveryJob) error
}

// DeadLetterStore retains exhausted queue messages for manual inspection.
type DeadLetterStore interface {
	Save(ctx context.Context, fd *delivery.FailedDelivery) error
}
