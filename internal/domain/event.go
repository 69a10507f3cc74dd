package domain

import (
	"sort"
	"time"
)

// EventItem is a scheduled gathering expected to produce surplus.
type EventItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Organizer string    `json:"organizer"`
	EndAt     time.Time `json:"endAt"`
	CreatedAt time.Time `json:"createdAt"`
	Logged    bool      `json:"logged"`
}

// EventDraft is the caller-supplied part of a new event.
type EventDraft struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Organizer string    `json:"organizer"`
	EndAt     time.Time `json:"endAt"`
}

// NewEvent builds an unlogged event from a draft.
func NewEvent(d EventDraft, now time.Time) EventItem {
	return EventItem{
		ID:        NewID("evt"),
		Name:      d.Name,
		Location:  d.Location,
		Organizer: d.Organizer,
		EndAt:     d.EndAt,
		CreatedAt: now,
	}
}

// SurplusWindow is how long a listing logged from an ended event stays available.
const SurplusWindow = 2 * time.Hour

// SurplusPreset prefills a listing draft for surplus left over from e.
func (e EventItem) SurplusPreset() ListingDraft {
	return ListingDraft{
		Title:          e.Name,
		Location:       e.Location,
		AvailableFrom:  e.EndAt,
		AvailableUntil: e.EndAt.Add(SurplusWindow),
	}
}

// UpcomingEvents returns events that have not ended, soonest first.
func UpcomingEvents(items []EventItem, now time.Time) []EventItem {
	out := []EventItem{}
	for _, e := range items {
		if e.EndAt.After(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndAt.Before(out[j].EndAt) })
	return out
}

// EndedEvents returns events that have ended, most recent first.
func EndedEvents(items []EventItem, now time.Time) []EventItem {
	out := []EventItem{}
	for _, e := range items {
		if !e.EndAt.After(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndAt.After(out[j].EndAt) })
	return out
}

// PendingReminders returns ended events nobody has logged or dismissed yet, in collection order.
func PendingReminders(items []EventItem, now time.Time) []EventItem {
	out := []EventItem{}
	for _, e := range items {
		if !e.EndAt.After(now) && !e.Logged {
			out = append(out, e)
		}
	}
	return out
}

// EndingSoon returns upcoming events that end within lead of now.
func EndingSoon(items []EventItem, now time.Time, lead time.Duration) []EventItem {
	out := []EventItem{}
	for _, e := range UpcomingEvents(items, now) {
		if !e.EndAt.After(now.Add(lead)) {
			out = append(out, e)
		}
	}
	return out
}
