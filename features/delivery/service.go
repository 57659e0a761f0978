package delivery

import (
	"context"
	"log/slog"
)

type Publisher interface {
	Publish(topic string, body []byte) error
}

type Service struct {
	repo   Repository
	pub    Publisher
	logger *slog.Logger
}

func NewService(repo Repository, pub Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, pub: pub, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]FailedDelivery, error) {
	return s.repo.List(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Retry republishes the dead-lettered payload on its original topic and
// removes the row only once the publish succeeded.
func (s *Service) Retry(ctx context.Context, id int64) error {
	fd, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.pub.Publish(fd.Topic, fd.Payload); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "failed delivery requeued", "id", id, "topic", fd.Topic)
	return s.repo.Delete(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
