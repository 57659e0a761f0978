package sweep

import (
	"context"

	"hireloop/backend/features/notification"
)

// EnterpriseContact is the denormalized owner snapshot carried with every
// expired entity so downstream side effects never re-query the primary store.
type EnterpriseContact struct {
	ID        int64
	AccountID int64
	Name      string
	Email     string
}

// Entity is one expirable row (a job posting or a boost) as the sweep sees it.
type Entity struct {
	ID         int64
	Title      string
	Enterprise EnterpriseContact
}

// Source pages through currently-expired entities and commits the terminal
// status flip. The expiry predicate must be re-evaluated fresh per call so
// rows closed mid-sweep drop out of later pages.
type Source interface {
	FetchExpiredBatch(ctx context.Context, limit, offset int) ([]Entity, error)
	MarkExpired(ctx context.Context, ids []int64) error
}

// SearchCache invalidates a cached search namespace by prefix.
type SearchCache interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// EmbeddingIndex maintains the external search-index entries for postings.
type EmbeddingIndex interface {
	DeleteJobs(ctx context.Context, ids []int64) error
	CreateJob(ctx context.Context, e Entity) error
}

// NotificationStore persists the in-app notification created during fan-out.
type NotificationStore interface {
	Save(ctx context.Context, n *notification.Notification) error
}

// Publisher enqueues a chunk of delivery jobs in one call. *nsq.Producer
// satisfies this directly.
type Publisher interface {
	MultiPublish(topic string, body [][]byte) error
}
