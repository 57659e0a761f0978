package notification

import (
	"context"
	"database/sql"
)

type Repository interface {
	Save(ctx context.Context, n *Notification) error
	ListByAccount(ctx context.Context, accountID int64) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) (bool, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, n *Notification) error {
	query := `INSERT INTO notifications (account_id, type, title, message, link)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, n.AccountID, n.Type, n.Title, n.Message, n.Link).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *PostgresRepo) ListByAccount(ctx context.Context, accountID int64) ([]Notification, error) {
	query := `SELECT id, account_id, type, title, message, link, read, created_at
		FROM notifications WHERE account_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (r *PostgresRepo) MarkRead(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
