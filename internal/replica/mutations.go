package replica

import (
	"context"
	"fmt"

	"ssf-backend/internal/domain"
)

// AddListing publishes a new listing at the head of the collection. When auto-notify is
// on, matching subscribers are announced once.
func (r *Replica) AddListing(ctx context.Context, d domain.ListingDraft) (domain.Listing, error) {
	r.writeMu.Lock()
	item := domain.NewListing(d, r.now())
	next := append([]domain.Listing{item}, r.repo.Listings(ctx)...)
	err := r.commit(domain.CollectionListings,
		func() error { return r.repo.SaveListings(ctx, next) },
		func() { r.listings = next })
	r.writeMu.Unlock()
	if err != nil {
		return domain.Listing{}, err
	}

	settings := r.Settings()
	if settings.AutoNotify {
		r.matcher.Announce(ctx, r.Subscriptions(), item)
	}
	return item, nil
}

// UpdateListing applies p to listing id.
func (r *Replica) UpdateListing(ctx context.Context, id string, p domain.ListingPatch) (domain.Listing, error) {
	return r.updateListing(ctx, id, func(l domain.Listing) (domain.Listing, error) {
		return p.Apply(l), nil
	})
}

// ClaimListing moves an available listing to claimed and records the claimer.
func (r *Replica) ClaimListing(ctx context.Context, id string, c domain.Claimer) (domain.Listing, error) {
	if c.ClaimedAt.IsZero() {
		c.ClaimedAt = r.now()
	}
	return r.updateListing(ctx, id, func(l domain.Listing) (domain.Listing, error) {
		if !l.Status.CanTransition(domain.StatusClaimed) {
			return l, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, domain.StatusClaimed)
		}
		status := domain.StatusClaimed
		return domain.ListingPatch{Status: &status, Claimer: &c}.Apply(l), nil
	})
}

// CollectListing moves a claimed listing to the terminal collected state.
func (r *Replica) CollectListing(ctx context.Context, id string) (domain.Listing, error) {
	return r.updateListing(ctx, id, func(l domain.Listing) (domain.Listing, error) {
		if !l.Status.CanTransition(domain.StatusCollected) {
			return l, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, domain.StatusCollected)
		}
		status := domain.StatusCollected
		return domain.ListingPatch{Status: &status}.Apply(l), nil
	})
}

func (r *Replica) updateListing(ctx context.Context, id string, fn func(domain.Listing) (domain.Listing, error)) (domain.Listing, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.repo.Listings(ctx)
	next := make([]domain.Listing, len(current))
	var updated domain.Listing
	found := false
	for i, l := range current {
		if l.ID == id {
			nl, err := fn(l)
			if err != nil {
				return domain.Listing{}, err
			}
			l, updated, found = nl, nl, true
		}
		next[i] = l
	}
	if !found {
		return domain.Listing{}, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	err := r.commit(domain.CollectionListings,
		func() error { return r.repo.SaveListings(ctx, next) },
		func() { r.listings = next })
	return updated, err
}

// RemoveListing deletes listing id. Removing a listing that is already gone is not an error;
// removing one in a terminal state is.
func (r *Replica) RemoveListing(ctx context.Context, id string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.repo.Listings(ctx)
	next := make([]domain.Listing, 0, len(current))
	for _, l := range current {
		if l.ID == id {
			if !l.Status.CanTransition(domain.StatusRemoved) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, domain.StatusRemoved)
			}
			continue
		}
		next = append(next, l)
	}
	return r.commit(domain.CollectionListings,
		func() error { return r.repo.SaveListings(ctx, next) },
		func() { r.listings = next })
}

// SweepListings re-reads the listings collection, passes it to fn and writes fn's result
// when fn reports a change. It is the write path of the expiry sweep, so the sweep never
// writes back a collection that another mutation of this context has since replaced.
func (r *Replica) SweepListings(ctx context.Context, fn func([]domain.Listing) ([]domain.Listing, bool)) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	next, changed := fn(r.repo.Listings(ctx))
	if !changed {
		return nil
	}
	next = append([]domain.Listing{}, next...)
	return r.commit(domain.CollectionListings,
		func() error { return r.repo.SaveListings(ctx, next) },
		func() { r.listings = next })
}

// AddEvent registers a new event at the head of the collection.
func (r *Replica) AddEvent(ctx context.Context, d domain.EventDraft) (domain.EventItem, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	ev := domain.NewEvent(d, r.now())
	next := append([]domain.EventItem{ev}, r.repo.Events(ctx)...)
	err := r.commit(domain.CollectionEvents,
		func() error { return r.repo.SaveEvents(ctx, next) },
		func() { r.events = next })
	if err != nil {
		return domain.EventItem{}, err
	}
	return ev, nil
}

// UpdateEvent applies p to event id.
func (r *Replica) UpdateEvent(ctx context.Context, id string, p domain.EventPatch) (domain.EventItem, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.repo.Events(ctx)
	next := make([]domain.EventItem, len(current))
	var updated domain.EventItem
	found := false
	for i, e := range current {
		if e.ID == id {
			e = p.Apply(e)
			updated, found = e, true
		}
		next[i] = e
	}
	if !found {
		return domain.EventItem{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	err := r.commit(domain.CollectionEvents,
		func() error { return r.repo.SaveEvents(ctx, next) },
		func() { r.events = next })
	return updated, err
}

// AddSub registers a new subscription at the head of the collection.
func (r *Replica) AddSub(ctx context.Context, d domain.SubscriptionDraft) (domain.SubscriptionPref, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	sub := domain.NewSubscription(d)
	next := append([]domain.SubscriptionPref{sub}, r.repo.Subscriptions(ctx)...)
	err := r.commit(domain.CollectionSubscriptions,
		func() error { return r.repo.SaveSubscriptions(ctx, next) },
		func() { r.subscriptions = next })
	if err != nil {
		return domain.SubscriptionPref{}, err
	}
	return sub, nil
}

// UpdateSub applies p to subscription id.
func (r *Replica) UpdateSub(ctx context.Context, id string, p domain.SubscriptionPatch) (domain.SubscriptionPref, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.repo.Subscriptions(ctx)
	next := make([]domain.SubscriptionPref, len(current))
	var updated domain.SubscriptionPref
	found := false
	for i, s := range current {
		if s.ID == id {
			s = p.Apply(s)
			updated, found = s, true
		}
		next[i] = s
	}
	if !found {
		return domain.SubscriptionPref{}, fmt.Errorf("subscription %s: %w", id, ErrNotFound)
	}
	err := r.commit(domain.CollectionSubscriptions,
		func() error { return r.repo.SaveSubscriptions(ctx, next) },
		func() { r.subscriptions = next })
	return updated, err
}

// SetSettings replaces the settings record wholesale.
func (r *Replica) SetSettings(ctx context.Context, s domain.Settings) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.commit(domain.CollectionSettings,
		func() error { return r.repo.SaveSettings(ctx, s) },
		func() { r.settings = s })
}
