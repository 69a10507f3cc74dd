package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ListingPatch is a partial update of a listing. Nil fields are left unchanged.
type ListingPatch struct {
	Title          *string        `json:"title,omitempty"`
	Category       *string        `json:"category,omitempty"`
	Quantity       *float64       `json:"quantity,omitempty"`
	Unit           *Unit          `json:"unit,omitempty"`
	Location       *string        `json:"location,omitempty"`
	Freshness      *Freshness     `json:"freshness,omitempty"`
	Tags           *[]string      `json:"tags,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	AvailableFrom  *time.Time     `json:"availableFrom,omitempty"`
	AvailableUntil *time.Time     `json:"availableUntil,omitempty"`
	SafeHours      *float64       `json:"safeHours,omitempty"`
	Status         *ListingStatus `json:"status,omitempty"`
	Claimer        *Claimer       `json:"claimer,omitempty"`
}

// Apply returns l with the patch applied. A change to the availability window or the
// safety duration recomputes ExpiresAt.
func (p ListingPatch) Apply(l Listing) Listing {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Quantity != nil {
		l.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		l.Unit = *p.Unit
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Freshness != nil {
		l.Freshness = *p.Freshness
	}
	if p.Tags != nil {
		l.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Notes != nil {
		notes := *p.Notes
		l.Notes = &notes
	}
	window := false
	if p.AvailableFrom != nil {
		l.AvailableFrom = *p.AvailableFrom
		window = true
	}
	if p.AvailableUntil != nil {
		l.AvailableUntil = *p.AvailableUntil
		window = true
	}
	if p.SafeHours != nil {
		l.SafeHours = *p.SafeHours
		window = true
	}
	if window {
		l.ExpiresAt = ComputeExpiresAt(l.AvailableFrom, l.AvailableUntil, l.SafeHours)
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Claimer != nil {
		c := *p.Claimer
		l.Claimer = &c
	}
	return l
}

// EventPatch is a partial update of an event. Only the logged flag is mutable.
type EventPatch struct {
	Logged *bool `json:"logged,omitempty"`
}

func (p EventPatch) Apply(e EventItem) EventItem {
	if p.Logged != nil {
		e.Logged = *p.Logged
	}
	return e
}

// SubscriptionPatch is a partial update of a subscription.
type SubscriptionPatch struct {
	Name                    *string   `json:"name,omitempty"`
	Role                    *Role     `json:"role,omitempty"`
	Categories              *[]string `json:"categories,omitempty"`
	Locations               *[]string `json:"locations,omitempty"`
	Enabled                 *bool     `json:"enabled,omitempty"`
	ViaBrowserNotifications *bool     `json:"viaBrowserNotifications,omitempty"`
}

func (p SubscriptionPatch) Apply(s SubscriptionPref) SubscriptionPref {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.Categories != nil {
		s.Categories = append([]string{}, (*p.Categories)...)
	}
	if p.Locations != nil {
		s.Locations = append([]string{}, (*p.Locations)...)
	}
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.ViaBrowserNotifications != nil {
		s.ViaBrowserNotifications = *p.ViaBrowserNotifications
	}
	return s
}

// DecodePatch decodes a JSON partial update into dst, rejecting any field the patch type
// does not declare.
func DecodePatch(data []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return fmt.Errorf("%w: %s", ErrUnknownField, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
