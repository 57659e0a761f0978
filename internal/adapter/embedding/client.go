package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// JobDocument is the payload the embedding service indexes per posting.
type JobDocument struct {
	JobID          int64  `json:"jobId"`
	Title          string `json:"title"`
	EnterpriseID   int64  `json:"enterpriseId"`
	EnterpriseName string `json:"enterpriseName"`
}

// Client talks to the search-embedding service. The service recomputes the
// vector itself; this client only tells it which documents to (re)index.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateJob indexes a single posting. The create endpoint is single-entity,
// so batch refreshes issue one call per document.
func (c *Client) CreateJob(ctx context.Context, doc JobDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embedding/job", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// DeleteJobs removes the index entries for a batch of posting ids.
func (c *Client) DeleteJobs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	body, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/embedding/job", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// DeleteJob removes the index entry for one posting.
func (c *Client) DeleteJob(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/embedding/job/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("embedding service error: %d", resp.StatusCode)
	}
	return nil
}
