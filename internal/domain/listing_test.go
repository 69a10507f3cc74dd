package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestComputeExpiresAt_SafeHoursShorterThanWindow(t *testing.T) {
	got := ComputeExpiresAt(t0, t0.Add(5*time.Hour), 3)
	assert.True(t, got.Equal(t0.Add(3*time.Hour)))
}

func TestComputeExpiresAt_WindowShorterThanSafeHours(t *testing.T) {
	got := ComputeExpiresAt(t0, t0.Add(90*time.Minute), 3)
	assert.True(t, got.Equal(t0.Add(90*time.Minute)))
}

func TestComputeExpiresAt_FractionalHours(t *testing.T) {
	got := ComputeExpiresAt(t0, t0.Add(5*time.Hour), 1.5)
	assert.True(t, got.Equal(t0.Add(90*time.Minute)))
}

func TestNewListing_AssignsLifecycleFields(t *testing.T) {
	l := NewListing(ListingDraft{
		Title:          "Pasta",
		Category:       "Meals",
		Quantity:       12,
		Unit:           UnitPlates,
		Location:       "Main Canteen",
		Freshness:      FreshnessHot,
		AvailableFrom:  t0,
		AvailableUntil: t0.Add(2 * time.Hour),
		SafeHours:      3,
	}, t0)
	assert.Contains(t, l.ID, "lst_")
	assert.Equal(t, StatusAvailable, l.Status)
	assert.True(t, l.CreatedAt.Equal(t0))
	assert.True(t, l.ExpiresAt.Equal(t0.Add(2*time.Hour)))
	assert.NotNil(t, l.Tags)
	assert.Nil(t, l.Claimer)
}

func TestListingIsExpired(t *testing.T) {
	l := Listing{ExpiresAt: t0.Add(time.Hour), AvailableUntil: t0.Add(2 * time.Hour)}
	assert.False(t, l.IsExpired(t0))
	assert.True(t, l.IsExpired(t0.Add(time.Hour)))
	assert.True(t, l.IsExpired(t0.Add(3*time.Hour)))

	// availableUntil reached even though a stale expiresAt lies later
	stale := Listing{ExpiresAt: t0.Add(5 * time.Hour), AvailableUntil: t0.Add(time.Hour)}
	assert.True(t, stale.IsExpired(t0.Add(time.Hour)))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusAvailable.CanTransition(StatusClaimed))
	assert.True(t, StatusClaimed.CanTransition(StatusCollected))
	assert.True(t, StatusAvailable.CanTransition(StatusExpired))
	assert.True(t, StatusClaimed.CanTransition(StatusExpired))
	assert.True(t, StatusAvailable.CanTransition(StatusRemoved))
	assert.True(t, StatusClaimed.CanTransition(StatusRemoved))

	assert.False(t, StatusAvailable.CanTransition(StatusCollected))
	assert.False(t, StatusClaimed.CanTransition(StatusClaimed))
	assert.False(t, StatusCollected.CanTransition(StatusRemoved))
	assert.False(t, StatusExpired.CanTransition(StatusAvailable))
	assert.False(t, StatusRemoved.CanTransition(StatusClaimed))
}

func TestFilterListings(t *testing.T) {
	notes := "vegan friendly"
	items := []Listing{
		{ID: "a", Title: "Rice", Category: "Meals", Location: "Hall A", Status: StatusAvailable, CreatedAt: t0},
		{ID: "b", Title: "Bread", Category: "Bakery", Location: "Cafe", Status: StatusClaimed, CreatedAt: t0.Add(time.Hour), Notes: &notes},
		{ID: "c", Title: "Soup", Category: "Meals", Location: "Hall B", Status: StatusCollected, CreatedAt: t0.Add(2 * time.Hour)},
	}

	active := FilterListings(items, ListingFilter{ActiveOnly: true})
	assert.Equal(t, []string{"b", "a"}, ids(active))

	all := FilterListings(items, ListingFilter{Category: "Meals"})
	assert.Equal(t, []string{"c", "a"}, ids(all))

	search := FilterListings(items, ListingFilter{Query: "  VEGAN "})
	assert.Equal(t, []string{"b"}, ids(search))

	assert.Equal(t, []string{"Meals", "Bakery"}, Categories(items))
}

func ids(items []Listing) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.ID)
	}
	return out
}
