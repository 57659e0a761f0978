package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hireloop/backend/features/notification"
	"hireloop/backend/internal/middleware"
	"hireloop/backend/internal/worker"
)

// enqueueChunkSize bounds a single MultiPublish payload.
const enqueueChunkSize = 50

// Config describes one expirable kind. Kind appears in queue job names
// ("expired-<kind>-<id>") and logs; CachePrefixes are the namespaces
// invalidated once per batch.
type Config struct {
	Kind             string
	Topic            string
	BatchSize        int
	NotificationType notification.Type
	CachePrefixes    []string
}

// Sweeper runs one expiry pass for a single entity kind: page through expired
// rows, fan out side effects per batch, bulk-close everything collected, then
// enqueue delivery jobs in chunks.
type Sweeper struct {
	cfg    Config
	source Source
	cache  SearchCache
	index  EmbeddingIndex
	notifs NotificationStore
	pub    Publisher
}

func NewSweeper(cfg Config, source Source, cache SearchCache, index EmbeddingIndex, notifs NotificationStore, pub Publisher) *Sweeper {
	return &Sweeper{
		cfg:    cfg,
		source: source,
		cache:  cache,
		index:  index,
		notifs: notifs,
		pub:    pub,
	}
}

// Run executes one sweep. Batches are fetched sequentially to bound memory; a
// fetch failure stops paging but the batches already fetched are still
// processed. The bulk status flip happens once, after the full scan.
func (s *Sweeper) Run(ctx context.Context) error {
	var collected []Entity
	offset := 0

	for {
		batch, err := s.source.FetchExpiredBatch(ctx, s.cfg.BatchSize, offset)
		if err != nil {
			slog.ErrorContext(ctx, "expired batch fetch failed, processing partial scan",
				"kind", s.cfg.Kind, "offset", offset, "error", err)
			break
		}

		if len(batch) > 0 {
			collected = append(collected, batch...)
			if err := s.handleBatch(ctx, batch); err != nil {
				// A notification-create failure aborts the remaining batches;
				// the next scheduled tick re-attempts whatever stays open.
				slog.ErrorContext(ctx, "fan-out failed, aborting remaining batches",
					"kind", s.cfg.Kind, "offset", offset, "error", err)
				break
			}
		}

		if len(batch) < s.cfg.BatchSize {
			break
		}
		offset += s.cfg.BatchSize
	}

	if len(collected) == 0 {
		return nil
	}

	ids := make([]int64, len(collected))
	for i, e := range collected {
		ids[i] = e.ID
	}
	if err := s.source.MarkExpired(ctx, ids); err != nil {
		return fmt.Errorf("mark expired (%s): %w", s.cfg.Kind, err)
	}

	slog.InfoContext(ctx, "expired entities closed", "kind", s.cfg.Kind, "count", len(ids))

	return s.enqueue(ctx, collected)
}

// handleBatch fans out the per-batch side effects concurrently. Cache and
// embedding failures are logged and swallowed; only a notification persistence
// failure surfaces, because without the in-app record the owner never learns
// their posting closed.
func (s *Sweeper) handleBatch(ctx context.Context, batch []Entity) error {
	if len(batch) == 0 {
		return nil
	}

	var g errgroup.Group

	for _, prefix := range s.cfg.CachePrefixes {
		g.Go(func() error {
			if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
				slog.WarnContext(ctx, "cache invalidation failed", "kind", s.cfg.Kind, "prefix", prefix, "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		ids := make([]int64, len(batch))
		for i, e := range batch {
			ids[i] = e.ID
		}
		if err := s.index.DeleteJobs(ctx, ids); err != nil {
			slog.WarnContext(ctx, "embedding bulk delete failed", "kind", s.cfg.Kind, "error", err)
			return nil
		}
		// The index create endpoint is single-entity, so refresh one by one.
		for _, e := range batch {
			if err := s.index.CreateJob(ctx, e); err != nil {
				slog.WarnContext(ctx, "embedding create failed", "kind", s.cfg.Kind, "id", e.ID, "error", err)
			}
		}
		return nil
	})

	for _, e := range batch {
		g.Go(func() error {
			n := &notification.Notification{
				AccountID: e.Enterprise.AccountID,
				Type:      s.cfg.NotificationType,
				Title:     fmt.Sprintf("%q has expired", e.Title),
				Message:   fmt.Sprintf("Your posting %q reached its deadline and is no longer visible to candidates.", e.Title),
				Link:      fmt.Sprintf("/jobs/%d", e.ID),
			}
			if err := s.notifs.Save(ctx, n); err != nil {
				return fmt.Errorf("save notification for %s %d: %w", s.cfg.Kind, e.ID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// enqueue publishes one delivery job per entity, chunked so a single enqueue
// call stays bounded.
func (s *Sweeper) enqueue(ctx context.Context, entities []Entity) error {
	bodies := make([][]byte, 0, len(entities))
	correlationID := middleware.GetCorrelationID(ctx)

	for _, e := range entities {
		dj := worker.DeliveryJob{
			Name:    fmt.Sprintf("expired-%s-%d", s.cfg.Kind, e.ID),
			JobID:   e.ID,
			JobName: e.Title,
			Enterprise: worker.EnterpriseContact{
				EnterpriseID: e.Enterprise.ID,
				Email:        e.Enterprise.Email,
				Name:         e.Enterprise.Name,
			},
			CorrelationID: correlationID,
		}

		body, err := json.Marshal(dj)
		if err != nil {
			return fmt.Errorf("marshal delivery job for %s %d: %w", s.cfg.Kind, e.ID, err)
		}
		bodies = append(bodies, body)
	}

	for start := 0; start < len(bodies); start += enqueueChunkSize {
		end := min(start+enqueueChunkSize, len(bodies))
		if err := s.pub.MultiPublish(s.cfg.Topic, bodies[start:end]); err != nil {
			return fmt.Errorf("enqueue %s deliveries [%d:%d]: %w", s.cfg.Kind, start, end, err)
		}
	}

	slog.InfoContext(ctx, "delivery jobs enqueued", "kind", s.cfg.Kind, "topic", s.cfg.Topic, "count", len(bodies))
	return nil
}
