package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"hireloop"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"hireloop"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`

	EmbeddingServiceURL string `envconfig:"EMBEDDING_SERVICE_URL" default:"http://embedding:8000"`
	MailServiceURL      string `envconfig:"MAIL_SERVICE_URL" default:"http://mailer:8025"`

	ServerPort    int    `envconfig:"SERVER_PORT" default:"8081"`
	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`

	SweepBatchSize       int  `envconfig:"SWEEP_BATCH_SIZE" default:"100"`
	DeliveryMaxAttempts  int  `envconfig:"DELIVERY_MAX_ATTEMPTS" default:"5"`
	FailedDeliveryRetain int  `envconfig:"FAILED_DELIVERY_RETAIN" default:"100"`
	EnableSweeper        bool `envconfig:"ENABLE_SWEEPER" default:"true"`
	EnableMailWorker     bool `envconfig:"ENABLE_MAIL_WORKER" default:"true"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Try loading .env from current dir and repo root.
	// Ignore errors, as env vars might be set in the shell.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	rootEnv := filepath.Join(cwd, "../.env")
	_ = godotenv.Load(rootEnv)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.EmbeddingServiceURL == "" {
		return fmt.Errorf("%w: EMBEDDING_SERVICE_URL", ErrMissingRequired)
	}
	if c.MailServiceURL == "" {
		return fmt.Errorf("%w: MAIL_SERVICE_URL", ErrMissingRequired)
	}
	if c.SweepBatchSize <= 0 {
		return fmt.Errorf("%w: SWEEP_BATCH_SIZE must be positive", ErrMissingRequired)
	}
	return nil
}
