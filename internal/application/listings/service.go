package listings

import (
	"context"
	"time"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/validation"
	"ssf-backend/internal/replica"
)

type Service struct {
	Replica *replica.Replica
	Now     func() time.Time
}

type ListInput struct {
	// Status is "active" (default) or "all".
	Status   string
	Category string
	Query    string
}

func (s *Service) List(in ListInput) []domain.Listing {
	return domain.FilterListings(s.Replica.Listings(), domain.ListingFilter{
		ActiveOnly: in.Status != "all",
		Category:   in.Category,
		Query:      in.Query,
	})
}

func (s *Service) Categories() []string {
	return domain.Categories(s.Replica.Listings())
}

// Publish validates d, filling its defaults, and adds the listing.
func (s *Service) Publish(ctx context.Context, d domain.ListingDraft) (domain.Listing, error) {
	if d.PostedBy == "" {
		d.PostedBy = s.Replica.Settings().UserProfile.Name
	}
	if err := validation.ListingDraft(&d, s.now()); err != nil {
		return domain.Listing{}, err
	}
	return s.Replica.AddListing(ctx, d)
}

// Update applies a JSON partial update. Fields outside ListingPatch are rejected.
func (s *Service) Update(ctx context.Context, id string, body []byte) (domain.Listing, error) {
	var p domain.ListingPatch
	if err := domain.DecodePatch(body, &p); err != nil {
		return domain.Listing{}, err
	}
	return s.Replica.UpdateListing(ctx, id, p)
}

func (s *Service) Claim(ctx context.Context, id string, c domain.Claimer) (domain.Listing, error) {
	if c.Name == "" {
		c.Name = s.Replica.Settings().UserProfile.Name
	}
	if err := validation.Claimer(&c); err != nil {
		return domain.Listing{}, err
	}
	return s.Replica.ClaimListing(ctx, id, c)
}

func (s *Service) Collect(ctx context.Context, id string) (domain.Listing, error) {
	return s.Replica.CollectListing(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.Replica.RemoveListing(ctx, id)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
