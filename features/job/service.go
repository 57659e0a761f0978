package job

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var (
	ErrNotReopenable = errors.New("job is not in an expired state")
	ErrPastDeadline  = errors.New("new deadline must be in the future")
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Job, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Job, error) {
	return s.repo.Get(ctx, id)
}

// Reopen flips an expired posting back to open with a new deadline. The sweep
// never reverses its own transition; this is the explicit path back.
func (s *Service) Reopen(ctx context.Context, id int64, deadline time.Time) error {
	if !deadline.After(time.Now()) {
		return ErrPastDeadline
	}

	reopened, err := s.repo.Reopen(ctx, id, deadline)
	if err != nil {
		return err
	}
	if !reopened {
		return ErrNotReopenable
	}

	s.logger.InfoContext(ctx, "job reopened", "id", id, "deadline", deadline)
	return nil
}
