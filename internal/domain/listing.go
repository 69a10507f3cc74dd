package domain

import (
	"sort"
	"strings"
	"time"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusClaimed   ListingStatus = "claimed"
	StatusCollected ListingStatus = "collected"
	StatusExpired   ListingStatus = "expired"
	StatusRemoved   ListingStatus = "removed"
)

// Terminal reports whether no further transition is allowed from s.
func (s ListingStatus) Terminal() bool {
	return s == StatusCollected || s == StatusExpired || s == StatusRemoved
}

// Active reports whether s is shown in the default listings view.
func (s ListingStatus) Active() bool {
	return s == StatusAvailable || s == StatusClaimed
}

// CanTransition reports whether the lifecycle allows s -> to.
//
//	available -> claimed -> collected
//	available|claimed -> expired
//	any non-terminal -> removed
func (s ListingStatus) CanTransition(to ListingStatus) bool {
	if s.Terminal() {
		return false
	}
	switch to {
	case StatusClaimed:
		return s == StatusAvailable
	case StatusCollected:
		return s == StatusClaimed
	case StatusExpired, StatusRemoved:
		return true
	}
	return false
}

// Unit is the quantity unit of a listing.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitPlates Unit = "plates"
	UnitLiters Unit = "liters"
	UnitPieces Unit = "pieces"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitPlates, UnitLiters, UnitPieces:
		return true
	}
	return false
}

// Freshness is the serving temperature tier of a listing.
type Freshness string

const (
	FreshnessHot     Freshness = "Hot"
	FreshnessWarm    Freshness = "Warm"
	FreshnessChilled Freshness = "Chilled"
	FreshnessAmbient Freshness = "Ambient"
)

func (f Freshness) Valid() bool {
	switch f {
	case FreshnessHot, FreshnessWarm, FreshnessChilled, FreshnessAmbient:
		return true
	}
	return false
}

// Role of a campus actor.
type Role string

const (
	RoleStudent Role = "Student"
	RoleStaff   Role = "Staff"
	RoleNGO     Role = "NGO"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleNGO:
		return true
	}
	return false
}

// Claimer records who claimed a listing.
type Claimer struct {
	Name      string    `json:"name"`
	Role      *Role     `json:"role,omitempty"`
	Contact   *string   `json:"contact,omitempty"`
	ClaimedAt time.Time `json:"claimedAt"`
	Quantity  *float64  `json:"quantity,omitempty"`
}

// Listing is a perishable surplus-food offer.
type Listing struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Category       string        `json:"category"`
	Quantity       float64       `json:"quantity"`
	Unit           Unit          `json:"unit"`
	Location       string        `json:"location"`
	Freshness      Freshness     `json:"freshness"`
	Tags           []string      `json:"tags"`
	Notes          *string       `json:"notes,omitempty"`
	PostedBy       string        `json:"postedBy"`
	CreatedAt      time.Time     `json:"createdAt"`
	AvailableFrom  time.Time     `json:"availableFrom"`
	AvailableUntil time.Time     `json:"availableUntil"`
	SafeHours      float64       `json:"safeHours"`
	ExpiresAt      time.Time     `json:"expiresAt"`
	Status         ListingStatus `json:"status"`
	Claimer        *Claimer      `json:"claimer,omitempty"`
}

// ListingDraft is the caller-supplied part of a new listing. Identity, creation time,
// status and expiry are assigned on publish.
type ListingDraft struct {
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Quantity       float64   `json:"quantity"`
	Unit           Unit      `json:"unit"`
	Location       string    `json:"location"`
	Freshness      Freshness `json:"freshness"`
	Tags           []string  `json:"tags"`
	Notes          *string   `json:"notes,omitempty"`
	PostedBy       string    `json:"postedBy"`
	AvailableFrom  time.Time `json:"availableFrom"`
	AvailableUntil time.Time `json:"availableUntil"`
	SafeHours      float64   `json:"safeHours"`
}

// ComputeExpiresAt returns min(availableUntil, availableFrom + safeHours).
func ComputeExpiresAt(availableFrom, availableUntil time.Time, safeHours float64) time.Time {
	safeUntil := availableFrom.Add(time.Duration(safeHours * float64(time.Hour)))
	if availableUntil.Before(safeUntil) {
		return availableUntil
	}
	return safeUntil
}

// NewListing builds an available listing from a draft.
func NewListing(d ListingDraft, now time.Time) Listing {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return Listing{
		ID:             NewID("lst"),
		Title:          d.Title,
		Category:       d.Category,
		Quantity:       d.Quantity,
		Unit:           d.Unit,
		Location:       d.Location,
		Freshness:      d.Freshness,
		Tags:           tags,
		Notes:          d.Notes,
		PostedBy:       d.PostedBy,
		CreatedAt:      now,
		AvailableFrom:  d.AvailableFrom,
		AvailableUntil: d.AvailableUntil,
		SafeHours:      d.SafeHours,
		ExpiresAt:      ComputeExpiresAt(d.AvailableFrom, d.AvailableUntil, d.SafeHours),
		Status:         StatusAvailable,
	}
}

// IsExpired reports whether now has reached the listing's expiry or the end of its window.
func (l Listing) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt) || !now.Before(l.AvailableUntil)
}

// ListingFilter narrows a listing collection for display.
type ListingFilter struct {
	ActiveOnly bool
	Category   string
	Query      string
}

// FilterListings applies f and orders the result newest first.
func FilterListings(items []Listing, f ListingFilter) []Listing {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Listing, 0, len(items))
	for _, l := range items {
		if f.ActiveOnly && !l.Status.Active() {
			continue
		}
		if f.Category != "" && f.Category != "All" && l.Category != f.Category {
			continue
		}
		if q != "" && !l.matchesText(q) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (l Listing) matchesText(q string) bool {
	fields := []string{l.Title, l.Category, l.Location}
	if l.Notes != nil {
		fields = append(fields, *l.Notes)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories in first-seen order.
func Categories(items []Listing) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{}
	for _, l := range items {
		if _, ok := seen[l.Category]; ok {
			continue
		}
		seen[l.Category] = struct{}{}
		out = append(out, l.Category)
	}
	return out
}
