package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ssf-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []domain.CollectionKey
}

func (p *recordingPublisher) Publish(_ context.Context, key domain.CollectionKey) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ssf.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Record{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestGet_MissingCollectionReturnsDefaults(t *testing.T) {
	s := New(openTestDB(t), "ctx-a", nil)
	ctx := context.Background()

	assert.Empty(t, s.Listings(ctx))
	assert.NotNil(t, s.Listings(ctx))
	assert.Empty(t, s.Events(ctx))
	assert.Empty(t, s.Subscriptions(ctx))
	assert.Equal(t, domain.DefaultSettings(), s.Settings(ctx))
}

func TestGet_MalformedCollectionReturnsDefaults(t *testing.T) {
	db := openTestDB(t)
	s := New(db, "ctx-a", nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&Record{Key: "listings", Value: datatypes.JSON(`{"not":"a list"}`), Revision: 1}).Error)
	require.NoError(t, db.Create(&Record{Key: "settings", Value: datatypes.JSON(`[1,2,3]`), Revision: 1}).Error)

	assert.Empty(t, s.Listings(ctx))
	assert.Equal(t, domain.DefaultSettings(), s.Settings(ctx))
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := New(openTestDB(t), "ctx-a", nil)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	notes := "bring a box"
	role := domain.RoleNGO

	listings := []domain.Listing{{
		ID: "lst_1", Title: "Curry", Category: "Meals", Quantity: 4, Unit: domain.UnitKg,
		Location: "Hall", Freshness: domain.FreshnessHot, Tags: []string{"veg"}, Notes: &notes,
		PostedBy: "You", CreatedAt: now, AvailableFrom: now, AvailableUntil: now.Add(time.Hour),
		SafeHours: 2, ExpiresAt: now.Add(time.Hour), Status: domain.StatusClaimed,
		Claimer: &domain.Claimer{Name: "Food bank", Role: &role, ClaimedAt: now},
	}}
	require.NoError(t, s.SaveListings(ctx, listings))
	assert.Equal(t, listings, s.Listings(ctx))

	settings := domain.DefaultSettings()
	settings.AutoNotify = false
	settings.Impact.AvgServingKg = 0.5
	require.NoError(t, s.SaveSettings(ctx, settings))
	assert.Equal(t, settings, s.Settings(ctx))

	subs := []domain.SubscriptionPref{{ID: "sub_1", Name: "n", Role: domain.RoleStaff, Categories: []string{}, Locations: []string{"Cafe"}, Enabled: true}}
	require.NoError(t, s.SaveSubscriptions(ctx, subs))
	assert.Equal(t, subs, s.Subscriptions(ctx))

	events := []domain.EventItem{{ID: "evt_1", Name: "Gala", EndAt: now, CreatedAt: now}}
	require.NoError(t, s.SaveEvents(ctx, events))
	assert.Equal(t, events, s.Events(ctx))
}

func TestPut_ReplacesWholeCollectionAndBumpsRevision(t *testing.T) {
	s := New(openTestDB(t), "ctx-a", nil)
	ctx := context.Background()

	require.NoError(t, s.SaveEvents(ctx, []domain.EventItem{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, s.SaveEvents(ctx, []domain.EventItem{{ID: "c"}}))

	got := s.Events(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	revs, err := s.Revisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, Revision{Number: 2, Origin: "ctx-a"}, revs[domain.CollectionEvents])
}

func TestPut_PublishesAfterWrite(t *testing.T) {
	pub := &recordingPublisher{}
	s := New(openTestDB(t), "ctx-a", pub)
	ctx := context.Background()

	require.NoError(t, s.SaveListings(ctx, []domain.Listing{}))
	require.NoError(t, s.SaveSettings(ctx, domain.DefaultSettings()))
	assert.Equal(t, []domain.CollectionKey{domain.CollectionListings, domain.CollectionSettings}, pub.keys)
}

func TestPut_UnknownCollection(t *testing.T) {
	pub := &recordingPublisher{}
	s := New(openTestDB(t), "ctx-a", pub)
	err := s.Put(context.Background(), domain.CollectionKey("ssf:other"), []int{1})
	assert.ErrorIs(t, err, ErrUnknownCollection)
	assert.Empty(t, pub.keys)
}
