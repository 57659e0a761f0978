package job

import (
	"time"
)

type Status string

const (
	// StatusOpen means the posting is live and accepting applications.
	StatusOpen Status = "open"

	// StatusExpired is the terminal state the sweep moves a posting into once
	// its deadline has passed. Only an explicit reopen moves it back.
	StatusExpired Status = "expired"
)

type Enterprise struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

type Job struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    time.Time  `json:"deadline"`
	Status      Status     `json:"status"`
	Enterprise  Enterprise `json:"enterprise"`
	CreatedAt   time.Time  `json:"created_at"`
}
