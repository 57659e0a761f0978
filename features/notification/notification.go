package notification

import (
	"time"
)

// Type enumerates the lifecycle events a notification can announce.
type Type string

const (
	TypeJobExpired          Type = "job_expired"
	TypeBoostExpired        Type = "boost_expired"
	TypeApplicationReceived Type = "application_received"
	TypePaymentSucceeded    Type = "payment_succeeded"
)

// Notification is the persisted in-app record. It is created synchronously
// during the expiry fan-out and never reconciled against email delivery.
type Notification struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
