package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"

	"hireloop/backend/internal/adapter/searchcache"
	"hireloop/backend/internal/app"
	"hireloop/backend/internal/config"
	"hireloop/backend/internal/logger"
	"hireloop/backend/internal/worker"
)

func main() {
	// Structured logger with correlation-id enrichment
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	log := slog.New(handler)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("failed to bootstrap dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()
	defer deps.Redis.Close()
	defer deps.NSQProducer.Stop()

	cache := searchcache.New(deps.Redis)

	a, err := app.New(cfg, deps.DB, cache, deps.NSQProducer, log)
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	// Mail worker consumers
	var consumers []*nsq.Consumer
	if cfg.EnableMailWorker {
		consumers = startConsumer(cfg, config.TopicJobExpired, a.JobConsumer, consumers)
		consumers = startConsumer(cfg, config.TopicBoostExpired, a.BoostConsumer, consumers)
	}
	defer func() {
		for _, c := range consumers {
			c.Stop()
		}
	}()

	// Expiry sweep runner
	if cfg.EnableSweeper {
		a.Runner.Start()
		defer a.Runner.Stop()
	}

	if err := a.Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func startConsumer(cfg *config.Config, topic string, h *worker.ExpiredConsumer, consumers []*nsq.Consumer) []*nsq.Consumer {
	nsqCfg := nsq.NewConfig()
	nsqCfg.MaxAttempts = uint16(cfg.DeliveryMaxAttempts)

	consumer, err := nsq.NewConsumer(topic, config.ChannelMailer, nsqCfg)
	if err != nil {
		slog.Error("failed to create NSQ consumer", "topic", topic, "error", err)
		return consumers
	}

	consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
		return h.HandleMessage(m)
	}))

	if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
		slog.Error("failed to connect to NSQLookupd", "topic", topic, "error", err)
		return consumers
	}

	slog.Info("mail worker consumer connected", "topic", topic, "channel", config.ChannelMailer)
	return append(consumers, consumer)
}
