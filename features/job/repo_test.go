package job_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireloop/backend/features/job"
)

func jobRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "deadline", "status", "created_at",
		"e_id", "e_account_id", "e_name", "e_email",
	})
}

func TestPostgresRepo_FetchExpiredBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	t.Run("ReturnsPage", func(t *testing.T) {
		deadline := time.Now().Add(-24 * time.Hour)
		rows := jobRows().
			AddRow(1, "Backend Engineer", "", deadline, "open", time.Now(), 10, 20, "Acme Corp", "hiring@acme.test").
			AddRow(2, "Data Analyst", "", deadline, "open", time.Now(), 11, 21, "Globex", "jobs@globex.test")

		mock.ExpectQuery("SELECT (.+) FROM jobs j").
			WithArgs(100, 0).
			WillReturnRows(rows)

		jobs, err := repo.FetchExpiredBatch(context.Background(), 100, 0)
		assert.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, int64(1), jobs[0].ID)
		assert.Equal(t, "Acme Corp", jobs[0].Enterprise.Name)
		assert.Equal(t, int64(21), jobs[1].Enterprise.AccountID)
	})

	t.Run("EmptyPage", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM jobs j").
			WithArgs(100, 200).
			WillReturnRows(jobRows())

		jobs, err := repo.FetchExpiredBatch(context.Background(), 100, 200)
		assert.NoError(t, err)
		assert.Empty(t, jobs)
	})
}

func TestPostgresRepo_MarkExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	t.Run("BulkUpdate", func(t *testing.T) {
		ids := []int64{1, 2, 3}
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE jobs SET status = 'expired', updated_at = NOW() WHERE id = ANY($1)`)).
			WithArgs(pq.Array(ids)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		assert.NoError(t, repo.MarkExpired(context.Background(), ids))
	})

	t.Run("EmptySetSkipsQuery", func(t *testing.T) {
		assert.NoError(t, repo.MarkExpired(context.Background(), nil))
	})
}

func TestPostgresRepo_Reopen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)
	deadline := time.Now().Add(72 * time.Hour)

	t.Run("Reopened", func(t *testing.T) {
		mock.ExpectExec("UPDATE jobs SET status = 'open'").
			WithArgs(int64(5), deadline).
			WillReturnResult(sqlmock.NewResult(0, 1))

		reopened, err := repo.Reopen(context.Background(), 5, deadline)
		assert.NoError(t, err)
		assert.True(t, reopened)
	})

	t.Run("NotExpired", func(t *testing.T) {
		mock.ExpectExec("UPDATE jobs SET status = 'open'").
			WithArgs(int64(6), deadline).
			WillReturnResult(sqlmock.NewResult(0, 0))

		reopened, err := repo.Reopen(context.Background(), 6, deadline)
		assert.NoError(t, err)
		assert.False(t, reopened)
	})
}

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := job.NewPostgresRepo(db)

	rows := jobRows().
		AddRow(7, "Platform Engineer", "Own the deploy pipeline", time.Now().Add(48*time.Hour), "open", time.Now(), 10, 20, "Acme Corp", "hiring@acme.test")

	mock.ExpectQuery("SELECT (.+) FROM jobs j").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	j, err := repo.Get(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), j.ID)
	assert.Equal(t, job.StatusOpen, j.Status)
	assert.Equal(t, "hiring@acme.test", j.Enterprise.Email)
}
