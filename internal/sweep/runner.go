package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hireloop/backend/internal/middleware"
)

const (
	// sweepInterval is the fixed wall-clock schedule.
	sweepInterval = 5 * time.Hour

	// sweepTimeout caps one run so a hung collaborator cannot wedge a tick
	// forever.
	sweepTimeout = 30 * time.Minute
)

// Runner fires every registered sweeper once per interval tick. A tick never
// waits for the previous run: entity mutation is idempotent across overlapping
// runs, duplicate notifications under overlap are an accepted weakness.
type Runner struct {
	sweepers []*Sweeper

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewRunner(sweepers ...*Sweeper) *Runner {
	return &Runner{
		sweepers: sweepers,
		stopCh:   make(chan struct{}),
	}
}

func (r *Runner) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop()
	slog.Info("expiry sweep runner started", "interval", sweepInterval)
}

func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	slog.Info("expiry sweep runner stopped")
}

func (r *Runner) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				r.RunOnce(context.Background())
			}()
		case <-r.stopCh:
			return
		}
	}
}

// RunOnce executes every sweeper sequentially under one correlation id. All
// failures are contained here: a failed run only logs, the next tick is the
// retry mechanism.
func (r *Runner) RunOnce(ctx context.Context) {
	ctx = middleware.WithCorrelationID(ctx, uuid.New().String())
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	slog.InfoContext(ctx, "expiry sweep tick started")

	for _, s := range r.sweepers {
		if err := s.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "sweep failed", "kind", s.cfg.Kind, "error", err)
		}
	}

	slog.InfoContext(ctx, "expiry sweep tick finished", "duration", time.Since(start))
}
