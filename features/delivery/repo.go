package delivery

import (
	"context"
	"database/sql"
	"encoding/json"
)

type Repository interface {
	Save(ctx context.Context, fd *FailedDelivery) error
	List(ctx context.Context) ([]FailedDelivery, error)
	Get(ctx context.Context, id int64) (*FailedDelivery, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type PostgresRepo struct {
	db     *sql.DB
	retain int
}

// NewPostgresRepo caps the table at retain rows; Save prunes the oldest rows
// beyond the cap so the dead-letter store never grows unbounded.
func NewPostgresRepo(db *sql.DB, retain int) *PostgresRepo {
	return &PostgresRepo{db: db, retain: retain}
}

func (r *PostgresRepo) Save(ctx context.Context, fd *FailedDelivery) error {
	query := `INSERT INTO failed_deliveries (topic, payload, error, attempts)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, query, fd.Topic, fd.Payload, fd.Error, fd.Attempts).
		Scan(&fd.ID, &fd.CreatedAt); err != nil {
		return err
	}

	prune := `DELETE FROM failed_deliveries WHERE id NOT IN (
		SELECT id FROM failed_deliveries ORDER BY created_at DESC, id DESC LIMIT $1)`
	_, err := r.db.ExecContext(ctx, prune, r.retain)
	return err
}

func (r *PostgresRepo) List(ctx context.Context) ([]FailedDelivery, error) {
	query := `SELECT id, topic, payload, error, attempts, created_at
		FROM failed_deliveries ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fds []FailedDelivery
	for rows.Next() {
		var fd FailedDelivery
		var payload []byte
		if err := rows.Scan(&fd.ID, &fd.Topic, &payload, &fd.Error, &fd.Attempts, &fd.CreatedAt); err != nil {
			return nil, err
		}
		fd.Payload = json.RawMessage(payload)
		fds = append(fds, fd)
	}
	return fds, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (*FailedDelivery, error) {
	fd := &FailedDelivery{}
	var payload []byte
	query := `SELECT id, topic, payload, error, attempts, created_at
		FROM failed_deliveries WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&fd.ID, &fd.Topic, &payload, &fd.Error, &fd.Attempts, &fd.CreatedAt)
	if err != nil {
		return nil, err
	}
	fd.Payload = json.RawMessage(payload)
	return fd, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM failed_deliveries WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM failed_deliveries`
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}
