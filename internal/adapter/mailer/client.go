package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrInvalidMessage = errors.New("invalid mail message")

type Enterprise struct {
	EnterpriseID int64  `json:"enterpriseId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
}

// Message is the structured payload the mail service templates and delivers.
// It carries everything needed to render the notice without another query.
type Message struct {
	JobID      int64      `json:"jobId"`
	JobName    string     `json:"jobName"`
	Enterprise Enterprise `json:"enterprise"`
}

func (m Message) Validate() error {
	if m.JobID == 0 {
		return fmt.Errorf("%w: jobId is required", ErrInvalidMessage)
	}
	if m.JobName == "" {
		return fmt.Errorf("%w: jobName is required", ErrInvalidMessage)
	}
	if m.Enterprise.EnterpriseID == 0 {
		return fmt.Errorf("%w: enterprise.enterpriseId is required", ErrInvalidMessage)
	}
	if m.Enterprise.Email == "" {
		return fmt.Errorf("%w: enterprise.email is required", ErrInvalidMessage)
	}
	return nil
}

// Client posts expiry notices to the mail service, which owns templating and
// actual SMTP delivery.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mail/job-expired", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail service error: %d", resp.StatusCode)
	}
	return nil
}
