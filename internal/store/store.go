package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ssf-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Publisher announces a collection write to other contexts.
type Publisher interface {
	Publish(ctx context.Context, key domain.CollectionKey) error
}

// Store is the durable owner of the four collections. Reads fail soft to the collection
// default; writes replace the entire collection and are followed by a broadcast.
type Store struct {
	DB        *gorm.DB
	Origin    string
	Publisher Publisher
	Now       func() time.Time
}

// New returns a Store writing as origin and announcing writes through pub (may be nil).
func New(db *gorm.DB, origin string, pub Publisher) *Store {
	return &Store{DB: db, Origin: origin, Publisher: pub, Now: time.Now}
}

// Get decodes the collection into dst. It reports false, leaving dst untouched, when the
// collection is absent, unreadable or malformed.
func (s *Store) Get(ctx context.Context, key domain.CollectionKey, dst interface{}) bool {
	if !key.Valid() {
		return false
	}
	var rec Record
	err := s.DB.WithContext(ctx).Where("collection_key = ?", string(key)).Take(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("collection", key.String()).Msg("store: read failed, using default")
		}
		return false
	}
	if len(rec.Value) == 0 {
		return false
	}
	if err := json.Unmarshal(rec.Value, dst); err != nil {
		log.Warn().Err(err).Str("collection", key.String()).Msg("store: malformed collection, using default")
		return false
	}
	return true
}

// Put atomically replaces the collection with value and then signals other contexts.
func (s *Store) Put(ctx context.Context, key domain.CollectionKey, value interface{}) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	now := s.now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec Record
		err := tx.Where("collection_key = ?", string(key)).Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&Record{
				Key:       string(key),
				Value:     datatypes.JSON(raw),
				Revision:  1,
				Origin:    s.Origin,
				UpdatedAt: now,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&Record{}).Where("collection_key = ?", string(key)).Updates(map[string]interface{}{
			"value":     datatypes.JSON(raw),
			"revision":  rec.Revision + 1,
			"origin":    s.Origin,
			"updatedAt": now,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, key); err != nil {
			log.Warn().Err(err).Str("collection", key.String()).Msg("store: broadcast failed")
		}
	}
	return nil
}

// Revisions returns the current revision of every collection that has been written.
func (s *Store) Revisions(ctx context.Context) (map[domain.CollectionKey]Revision, error) {
	var recs []Record
	if err := s.DB.WithContext(ctx).Select("collection_key", "revision", "origin").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[domain.CollectionKey]Revision, len(recs))
	for _, r := range recs {
		out[domain.CollectionKey(r.Key)] = Revision{Number: r.Revision, Origin: r.Origin}
	}
	return out, nil
}

func (s *Store) Listings(ctx context.Context) []domain.Listing {
	out := []domain.Listing{}
	if !s.Get(ctx, domain.CollectionListings, &out) || out == nil {
		return []domain.Listing{}
	}
	return out
}

func (s *Store) Events(ctx context.Context) []domain.EventItem {
	out := []domain.EventItem{}
	if !s.Get(ctx, domain.CollectionEvents, &out) || out == nil {
		return []domain.EventItem{}
	}
	return out
}

func (s *Store) Subscriptions(ctx context.Context) []domain.SubscriptionPref {
	out := []domain.SubscriptionPref{}
	if !s.Get(ctx, domain.CollectionSubscriptions, &out) || out == nil {
		return []domain.SubscriptionPref{}
	}
	return out
}

func (s *Store) Settings(ctx context.Context) domain.Settings {
	var out domain.Settings
	if !s.Get(ctx, domain.CollectionSettings, &out) {
		return domain.DefaultSettings()
	}
	return out
}

func (s *Store) SaveListings(ctx context.Context, v []domain.Listing) error {
	return s.Put(ctx, domain.CollectionListings, v)
}

func (s *Store) SaveEvents(ctx context.Context, v []domain.EventItem) error {
	return s.Put(ctx, domain.CollectionEvents, v)
}

func (s *Store) SaveSubscriptions(ctx context.Context, v []domain.SubscriptionPref) error {
	return s.Put(ctx, domain.CollectionSubscriptions, v)
}

func (s *Store) SaveSettings(ctx context.Context, v domain.Settings) error {
	return s.Put(ctx, domain.CollectionSettings, v)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
