package events

import (
	"context"
	"fmt"
	"time"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/validation"
	"ssf-backend/internal/replica"
)

type Service struct {
	Replica *replica.Replica
	Now     func() time.Time
}

type Overview struct {
	Upcoming []domain.EventItem `json:"upcoming"`
	Ended    []domain.EventItem `json:"ended"`
}

type Reminders struct {
	// Next is the first ended event still waiting for its surplus to be logged.
	Next       *domain.EventItem  `json:"next"`
	Pending    []domain.EventItem `json:"pending"`
	EndingSoon []domain.EventItem `json:"endingSoon"`
}

func (s *Service) List() Overview {
	items, now := s.Replica.Events(), s.now()
	return Overview{Upcoming: domain.UpcomingEvents(items, now), Ended: domain.EndedEvents(items, now)}
}

func (s *Service) Create(ctx context.Context, d domain.EventDraft) (domain.EventItem, error) {
	if d.Organizer == "" {
		d.Organizer = s.Replica.Settings().UserProfile.Name
	}
	if err := validation.EventDraft(&d); err != nil {
		return domain.EventItem{}, err
	}
	return s.Replica.AddEvent(ctx, d)
}

func (s *Service) Update(ctx context.Context, id string, body []byte) (domain.EventItem, error) {
	var p domain.EventPatch
	if err := domain.DecodePatch(body, &p); err != nil {
		return domain.EventItem{}, err
	}
	return s.Replica.UpdateEvent(ctx, id, p)
}

// Reminders reports ended events awaiting a surplus log and upcoming events ending within
// the configured reminder lead.
func (s *Service) Reminders() Reminders {
	items, now := s.Replica.Events(), s.now()
	lead := time.Duration(s.Replica.Settings().RemindBeforeMinutes) * time.Minute
	out := Reminders{
		Pending:    domain.PendingReminders(items, now),
		EndingSoon: domain.EndingSoon(items, now, lead),
	}
	if len(out.Pending) > 0 {
		next := out.Pending[0]
		out.Next = &next
	}
	return out
}

// LogSurplus publishes a listing prefilled from event id and marks the event logged.
// Fields set in d override the preset.
func (s *Service) LogSurplus(ctx context.Context, id string, d domain.ListingDraft) (domain.Listing, error) {
	var ev *domain.EventItem
	for _, e := range s.Replica.Events() {
		if e.ID == id {
			e := e
			ev = &e
			break
		}
	}
	if ev == nil {
		return domain.Listing{}, fmt.Errorf("event %s: %w", id, replica.ErrNotFound)
	}

	preset := ev.SurplusPreset()
	if d.Title == "" {
		d.Title = preset.Title
	}
	if d.Location == "" {
		d.Location = preset.Location
	}
	if d.AvailableFrom.IsZero() {
		d.AvailableFrom = preset.AvailableFrom
	}
	if d.AvailableUntil.IsZero() {
		d.AvailableUntil = preset.AvailableUntil
	}
	if d.PostedBy == "" {
		d.PostedBy = ev.Organizer
	}
	if err := validation.ListingDraft(&d, s.now()); err != nil {
		return domain.Listing{}, err
	}

	l, err := s.Replica.AddListing(ctx, d)
	if err != nil {
		return domain.Listing{}, err
	}
	logged := true
	if _, err := s.Replica.UpdateEvent(ctx, id, domain.EventPatch{Logged: &logged}); err != nil {
		return l, err
	}
	return l, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
