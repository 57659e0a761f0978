package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hireloop/backend/internal/config"
)

type noopCache struct{}

func (noopCache) InvalidatePrefix(ctx context.Context, prefix string) error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(topic string, body []byte) error        { return nil }
func (noopPublisher) MultiPublish(topic string, body [][]byte) error { return nil }

func newTestApp(t *testing.T) *App {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ServerPort:           8081,
		SweepBatchSize:       100,
		DeliveryMaxAttempts:  5,
		FailedDeliveryRetain: 100,
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	a, err := New(cfg, db, noopCache{}, noopPublisher{}, logger)
	require.NoError(t, err)
	return a
}

func TestNew_WiresEverything(t *testing.T) {
	a := newTestApp(t)

	assert.NotNil(t, a.Handler)
	assert.NotNil(t, a.Runner)
	assert.NotNil(t, a.JobConsumer)
	assert.NotNil(t, a.BoostConsumer)
}

func TestApp_HealthRoute(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestApp_RoutesRegistered(t *testing.T) {
	a := newTestApp(t)

	// An unregistered path 404s; a registered path with a bad id gets past
	// routing into the handler.
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/deliveries/abc/retry", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
