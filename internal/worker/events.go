package worker

import (
	"errors"
	"fmt"
)

var ErrInvalidDeliveryJob = errors.New("invalid delivery job")

type EnterpriseContact struct {
	EnterpriseID int64  `json:"enterpriseId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
}

// DeliveryJob is the queue-resident payload: a denormalized snapshot
// sufficient to render the expiry email without re-querying the primary
// store. Name is observability-only, never a dedup key.
type DeliveryJob struct {
	Name          string            `json:"name"`
	JobID         int64             `json:"jobId"`
	JobName       string            `json:"jobName"`
	Enterprise    EnterpriseContact `json:"enterprise"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

func (j DeliveryJob) Validate() error {
	if j.JobID == 0 {
		return fmt.Errorf("%w: jobId is required", ErrInvalidDeliveryJob)
	}
	if j.JobName == "" {
		return fmt.Errorf("%w: jobName is required", ErrInvalidDeliveryJob)
	}
	if j.Enterprise.EnterpriseID == 0 {
		return fmt.Errorf("%w: enterprise.enterpriseId is required", ErrInvalidDeliveryJob)
	}
	if j.Enterprise.Email == "" {
		return fmt.Errorf("%w: enterprise.email is required", ErrInvalidDeliveryJob)
	}
	return nil
}
