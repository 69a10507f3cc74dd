package settings

import (
	"context"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/validation"
	"ssf-backend/internal/replica"
)

type Service struct {
	Replica *replica.Replica
}

func (s *Service) Get() domain.Settings {
	return s.Replica.Settings()
}

// Replace stores v as the whole settings record.
func (s *Service) Replace(ctx context.Context, v domain.Settings) (domain.Settings, error) {
	if err := validation.Settings(&v); err != nil {
		return domain.Settings{}, err
	}
	if err := s.Replica.SetSettings(ctx, v); err != nil {
		return domain.Settings{}, err
	}
	return v, nil
}
