package sweep

import (
	"context"
	"errors"
	"sync"

	"hireloop/backend/features/notification"
)

// fakeSource pages from a fixed slice and can fail at a given offset.
type fakeSource struct {
	entities    []Entity
	errAtOffset int // -1 disables
	fetchCalls  []fetchCall
	markedIDs   [][]int64
	markErr     error
}

type fetchCall struct {
	limit  int
	offset int
}

func newFakeSource(entities []Entity) *fakeSource {
	return &fakeSource{entities: entities, errAtOffset: -1}
}

func (f *fakeSource) FetchExpiredBatch(ctx context.Context, limit, offset int) ([]Entity, error) {
	f.fetchCalls = append(f.fetchCalls, fetchCall{limit: limit, offset: offset})
	if f.errAtOffset >= 0 && offset == f.errAtOffset {
		return nil, errors.New("connection reset")
	}
	if offset >= len(f.entities) {
		return nil, nil
	}
	end := min(offset+limit, len(f.entities))
	return f.entities[offset:end], nil
}

func (f *fakeSource) MarkExpired(ctx context.Context, ids []int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = append(f.markedIDs, ids)
	return nil
}

type fakeCache struct {
	mu       sync.Mutex
	prefixes []string
	err      error
}

func (f *fakeCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = append(f.prefixes, prefix)
	return f.err
}

type fakeIndex struct {
	mu        sync.Mutex
	deleted   [][]int64
	created   []int64
	deleteErr error
	createErr error
}

func (f *fakeIndex) DeleteJobs(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids)
	return nil
}

func (f *fakeIndex) CreateJob(ctx context.Context, e Entity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, e.ID)
	return nil
}

type fakeNotifStore struct {
	mu    sync.Mutex
	saved []notification.Notification
	err   error
}

func (f *fakeNotifStore) Save(ctx context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, *n)
	return nil
}

type fakePublisher struct {
	topics  []string
	batches [][][]byte
	err     error
}

func (f *fakePublisher) MultiPublish(topic string, body [][]byte) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.batches = append(f.batches, body)
	return nil
}

func makeEntities(n int) []Entity {
	entities := make([]Entity, n)
	for i := range entities {
		entities[i] = Entity{
			ID:    int64(i + 1),
			Title: "Backend Engineer",
			Enterprise: EnterpriseContact{
				ID:        int64(1000 + i),
				AccountID: int64(2000 + i),
				Name:      "Acme Corp",
				Email:     "hiring@acme.test",
			},
		}
	}
	return entities
}

func newTestSweeper(src *fakeSource, cache *fakeCache, index *fakeIndex, notifs *fakeNotifStore, pub *fakePublisher, batchSize int) *Sweeper {
	return NewSweeper(Config{
		Kind:             "job",
		Topic:            "job-expired",
		BatchSize:        batchSize,
		NotificationType: notification.TypeJobExpired,
		CachePrefixes:    []string{"search:enterprise:", "search:jobs:"},
	}, src, cache, index, notifs, pub)
}
