package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"hireloop/backend/features/boost"
	"hireloop/backend/features/delivery"
	"hireloop/backend/features/job"
	"hireloop/backend/features/notification"
	"hireloop/backend/internal/adapter/embedding"
	"hireloop/backend/internal/adapter/mailer"
	"hireloop/backend/internal/adapter/searchcache"
	"hireloop/backend/internal/config"
	"hireloop/backend/internal/middleware"
	"hireloop/backend/internal/sweep"
	"hireloop/backend/internal/worker"
)

// Publisher is what the wiring needs from the queue producer. *nsq.Producer
// satisfies both methods.
type Publisher interface {
	Publish(topic string, body []byte) error
	MultiPublish(topic string, body [][]byte) error
}

type App struct {
	Handler       http.Handler
	Runner        *sweep.Runner
	JobConsumer   *worker.ExpiredConsumer
	BoostConsumer *worker.ExpiredConsumer

	port int
}

func New(cfg *config.Config, db *sql.DB, cache sweep.SearchCache, pub Publisher, logger *slog.Logger) (*App, error) {
	// Repositories
	jobRepo := job.NewPostgresRepo(db)
	boostRepo := boost.NewPostgresRepo(db)
	notifRepo := notification.NewPostgresRepo(db)
	deliveryRepo := delivery.NewPostgresRepo(db, cfg.FailedDeliveryRetain)

	// External collaborators
	embeddingClient := embedding.NewClient(cfg.EmbeddingServiceURL)
	mailClient := mailer.NewClient(cfg.MailServiceURL)

	// Feature: Job
	jobService := job.NewService(jobRepo, logger)
	jobHandler := job.NewHandler(jobService)

	// Feature: Notification
	notifHandler := notification.NewHandler(notifRepo)

	// Feature: Delivery (dead letters)
	deliveryService := delivery.NewService(deliveryRepo, pub, logger)
	deliveryHandler := delivery.NewHandler(deliveryService)

	// Sweep
	index := &embeddingIndexAdapter{client: embeddingClient}
	cachePrefixes := []string{searchcache.PrefixEnterpriseSearch, searchcache.PrefixGlobalSearch}

	jobSweeper := sweep.NewSweeper(sweep.Config{
		Kind:             "job",
		Topic:            config.TopicJobExpired,
		BatchSize:        cfg.SweepBatchSize,
		NotificationType: notification.TypeJobExpired,
		CachePrefixes:    cachePrefixes,
	}, &jobSweepSource{repo: jobRepo}, cache, index, notifRepo, pub)

	boostSweeper := sweep.NewSweeper(sweep.Config{
		Kind:             "boostJob",
		Topic:            config.TopicBoostExpired,
		BatchSize:        cfg.SweepBatchSize,
		NotificationType: notification.TypeBoostExpired,
		CachePrefixes:    cachePrefixes,
	}, &boostSweepSource{repo: boostRepo}, cache, index, notifRepo, pub)

	runner := sweep.NewRunner(jobSweeper, boostSweeper)

	// Mail worker consumers, one per topic on a shared channel.
	mailAdapter := &mailerAdapter{client: mailClient}
	jobConsumer := worker.NewExpiredConsumer(config.TopicJobExpired, mailAdapter, deliveryRepo, cfg.DeliveryMaxAttempts)
	boostConsumer := worker.NewExpiredConsumer(config.TopicBoostExpired, mailAdapter, deliveryRepo, cfg.DeliveryMaxAttempts)

	// Routes
	mux := http.NewServeMux()

	mux.Handle("GET /jobs", middleware.CorrelationID(http.HandlerFunc(jobHandler.List)))
	mux.Handle("GET /jobs/{id}", middleware.CorrelationID(http.HandlerFunc(jobHandler.Get)))
	mux.Handle("POST /jobs/{id}/reopen", middleware.CorrelationID(http.HandlerFunc(jobHandler.Reopen)))

	mux.Handle("GET /notifications", middleware.CorrelationID(http.HandlerFunc(notifHandler.List)))
	mux.Handle("POST /notifications/{id}/read", middleware.CorrelationID(http.HandlerFunc(notifHandler.MarkRead)))

	mux.Handle("GET /deliveries/failed", middleware.CorrelationID(http.HandlerFunc(deliveryHandler.List)))
	mux.Handle("POST /deliveries/{id}/retry", middleware.CorrelationID(http.HandlerFunc(deliveryHandler.Retry)))
	mux.Handle("DELETE /deliveries/{id}", middleware.CorrelationID(http.HandlerFunc(deliveryHandler.Delete)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{
		Handler:       mux,
		Runner:        runner,
		JobConsumer:   jobConsumer,
		BoostConsumer: boostConsumer,
		port:          cfg.ServerPort,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Adapter: job repo -> sweep source
type jobSweepSource struct {
	repo job.Repository
}

func (a *jobSweepSource) FetchExpiredBatch(ctx context.Context, limit, offset int) ([]sweep.Entity, error) {
	jobs, err := a.repo.FetchExpiredBatch(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	entities := make([]sweep.Entity, len(jobs))
	for i, j := range jobs {
		entities[i] = sweep.Entity{
			ID:    j.ID,
			Title: j.Title,
			Enterprise: sweep.EnterpriseContact{
				ID:        j.Enterprise.ID,
				AccountID: j.Enterprise.AccountID,
				Name:      j.Enterprise.Name,
				Email:     j.Enterprise.Email,
			},
		}
	}
	return entities, nil
}

func (a *jobSweepSource) MarkExpired(ctx context.Context, ids []int64) error {
	return a.repo.MarkExpired(ctx, ids)
}

// Adapter: boost repo -> sweep source
type boostSweepSource struct {
	repo boost.Repository
}

func (a *boostSweepSource) FetchExpiredBatch(ctx context.Context, limit, offset int) ([]sweep.Entity, error) {
	boosts, err := a.repo.FetchExpiredBatch(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	entities := make([]sweep.Entity, len(boosts))
	for i, b := range boosts {
		entities[i] = sweep.Entity{
			ID:    b.ID,
			Title: b.JobTitle,
			Enterprise: sweep.EnterpriseContact{
				ID:        b.Enterprise.ID,
				AccountID: b.Enterprise.AccountID,
				Name:      b.Enterprise.Name,
				Email:     b.Enterprise.Email,
			},
		}
	}
	return entities, nil
}

func (a *boostSweepSource) MarkExpired(ctx context.Context, ids []int64) error {
	return a.repo.MarkExpired(ctx, ids)
}

// Adapter: embedding client -> sweep index
type embeddingIndexAdapter struct {
	client *embedding.Client
}

func (a *embeddingIndexAdapter) DeleteJobs(ctx context.Context, ids []int64) error {
	return a.client.DeleteJobs(ctx, ids)
}

func (a *embeddingIndexAdapter) CreateJob(ctx context.Context, e sweep.Entity) error {
	return a.client.CreateJob(ctx, embedding.JobDocument{
		JobID:          e.ID,
		Title:          e.Title,
		EnterpriseID:   e.Enterprise.ID,
		EnterpriseName: e.Enterprise.Name,
	})
}

// Adapter: mail client -> worker mailer
type mailerAdapter struct {
	client *mailer.Client
}

func (a *mailerAdapter) Send(ctx context.Context, job worker.DeliveryJob) error {
	return a.client.Send(ctx, mailer.Message{
		JobID:   job.JobID,
		JobName: job.JobName,
		Enterprise: mailer.Enterprise{
			EnterpriseID: job.Enterprise.EnterpriseID,
			Email:        job.Enterprise.Email,
			Name:         job.Enterprise.Name,
		},
	})
}
