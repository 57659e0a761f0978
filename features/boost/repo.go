package boost

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type Repository interface {
	FetchExpiredBatch(ctx context.Context, limit, offset int) ([]Boost, error)
	MarkExpired(ctx context.Context, ids []int64) error
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// FetchExpiredBatch returns one page of boosts whose window has elapsed and
// that are still active, ordered by primary key for stable pagination.
func (r *PostgresRepo) FetchExpiredBatch(ctx context.Context, limit, offset int) ([]Boost, error) {
	query := `SELECT b.id, b.job_id, b.job_title, b.expires_at, b.status, b.created_at,
			e.id, e.account_id, e.name, e.email
		FROM boosts b
		JOIN enterprises e ON e.id = b.enterprise_id
		WHERE b.expires_at < NOW() AND b.status = 'active'
		ORDER BY b.id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boosts []Boost
	for rows.Next() {
		var b Boost
		if err := rows.Scan(
			&b.ID, &b.JobID, &b.JobTitle, &b.ExpiresAt, &b.Status, &b.CreatedAt,
			&b.Enterprise.ID, &b.Enterprise.AccountID, &b.Enterprise.Name, &b.Enterprise.Email,
		); err != nil {
			return nil, err
		}
		boosts = append(boosts, b)
	}
	return boosts, rows.Err()
}

// MarkExpired deactivates the full collected set in one bulk statement.
func (r *PostgresRepo) MarkExpired(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE boosts SET status = 'inactive', updated_at = NOW() WHERE id = ANY($1)`
	_, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	return err
}
