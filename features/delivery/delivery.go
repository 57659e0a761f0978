package delivery

import (
	"encoding/json"
	"time"
)

// FailedDelivery is a dead-lettered queue message: a mail delivery that
// exhausted its retry budget. The newest rows are retained for manual
// inspection and retry; older rows beyond the cap are pruned.
type FailedDelivery struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	Payload   json.RawMessage `json:"payload"`
	Error     string          `json:"error"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
}
