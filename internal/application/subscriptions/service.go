package subscriptions

import (
	"context"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/validation"
	"ssf-backend/internal/replica"
)

type Service struct {
	Replica *replica.Replica
}

func (s *Service) List() []domain.SubscriptionPref {
	return s.Replica.Subscriptions()
}

func (s *Service) Create(ctx context.Context, d domain.SubscriptionDraft) (domain.SubscriptionPref, error) {
	if err := validation.SubscriptionDraft(&d); err != nil {
		return domain.SubscriptionPref{}, err
	}
	return s.Replica.AddSub(ctx, d)
}

func (s *Service) Update(ctx context.Context, id string, body []byte) (domain.SubscriptionPref, error) {
	var p domain.SubscriptionPatch
	if err := domain.DecodePatch(body, &p); err != nil {
		return domain.SubscriptionPref{}, err
	}
	if p.Role != nil && !p.Role.Valid() {
		return domain.SubscriptionPref{}, &validation.Errors{Fields: map[string]string{"role": "must be one of Student, Staff, NGO"}}
	}
	return s.Replica.UpdateSub(ctx, id, p)
}
