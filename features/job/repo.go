package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Repository interface {
	FetchExpiredBatch(ctx context.Context, limit, offset int) ([]Job, error)
	MarkExpired(ctx context.Context, ids []int64) error
	Get(ctx context.Context, id int64) (*Job, error)
	List(ctx context.Context) ([]Job, error)
	Reopen(ctx context.Context, id int64, deadline time.Time) (bool, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const jobColumns = `j.id, j.title, j.description, j.deadline, j.status, j.created_at,
	e.id, e.account_id, e.name, e.email`

// FetchExpiredBatch returns one page of postings whose deadline has passed and
// that are still open. The predicate is evaluated fresh on every call, so rows
// closed by an earlier batch of the same sweep drop out of later pages. Ordered
// by primary key to keep pagination stable within a sweep.
func (r *PostgresRepo) FetchExpiredBatch(ctx context.Context, limit, offset int) ([]Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs j
		JOIN enterprises e ON e.id = j.enterprise_id
		WHERE j.deadline < NOW() AND j.status = 'open'
		ORDER BY j.id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

// MarkExpired closes the full collected set in one bulk statement. Re-marking
// an already expired row is a no-op, so overlapping sweeps are safe here.
func (r *PostgresRepo) MarkExpired(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE jobs SET status = 'expired', updated_at = NOW() WHERE id = ANY($1)`
	_, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (*Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs j
		JOIN enterprises e ON e.id = j.enterprise_id
		WHERE j.id = $1`

	j := &Job{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.Title, &j.Description, &j.Deadline, &j.Status, &j.CreatedAt,
		&j.Enterprise.ID, &j.Enterprise.AccountID, &j.Enterprise.Name, &j.Enterprise.Email,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs j
		JOIN enterprises e ON e.id = j.enterprise_id
		ORDER BY j.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

// Reopen is the only path back from expired to open. It requires a new future
// deadline and reports whether a row was actually transitioned.
func (r *PostgresRepo) Reopen(ctx context.Context, id int64, deadline time.Time) (bool, error) {
	query := `UPDATE jobs SET status = 'open', deadline = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'expired'`
	res, err := r.db.ExecContext(ctx, query, id, deadline)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanJobs(rows *sql.Rows) ([]Job, error) {
	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Description, &j.Deadline, &j.Status, &j.CreatedAt,
			&j.Enterprise.ID, &j.Enterprise.AccountID, &j.Enterprise.Name, &j.Enterprise.Email,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
