// Package replica holds one context's in-memory mirror of the durable collections and the
// mutation API every writer goes through.
//
// Each mutation re-reads the authoritative collection from the store, applies its change,
// writes the whole collection back and then updates the local mirror. Two contexts that
// mutate the same collection between one's read and its write race: the later write wins
// and silently drops the earlier change. No merge or version check exists.
package replica

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/metrics"
	"ssf-backend/internal/notify"

	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("Record not found")

// Repository is the durable store as seen by a replica.
type Repository interface {
	Listings(ctx context.Context) []domain.Listing
	Events(ctx context.Context) []domain.EventItem
	Subscriptions(ctx context.Context) []domain.SubscriptionPref
	Settings(ctx context.Context) domain.Settings
	SaveListings(ctx context.Context, v []domain.Listing) error
	SaveEvents(ctx context.Context, v []domain.EventItem) error
	SaveSubscriptions(ctx context.Context, v []domain.SubscriptionPref) error
	SaveSettings(ctx context.Context, v domain.Settings) error
}

// Source says why a reload happened.
type Source string

const (
	SourceInitial   Source = "initial"
	SourceBroadcast Source = "broadcast"
	SourceStorage   Source = "storage"
	SourceLocal     Source = "local"
)

// Change is delivered to observers after the mirror changed.
type Change struct {
	Keys   []domain.CollectionKey
	Source Source
}

// Observer is notified of every mirror change.
type Observer func(Change)

// Snapshot is a consistent copy of all four collections.
type Snapshot struct {
	Listings      []domain.Listing          `json:"listings"`
	Events        []domain.EventItem        `json:"events"`
	Subscriptions []domain.SubscriptionPref `json:"subscriptions"`
	Settings      domain.Settings           `json:"settings"`
}

type signal struct {
	key    domain.CollectionKey
	source Source
}

// Options configure a Replica.
type Options struct {
	// Notifier receives new-listing announcements. Nil disables them.
	Notifier notify.Notifier
	Metrics  *metrics.Collectors
	Now      func() time.Time
}

// Replica is one context's mirror. All methods are safe for concurrent use; mutations are
// serialized so each observes a consistent read-then-write sequence.
type Replica struct {
	repo    Repository
	matcher *notify.Matcher
	metrics *metrics.Collectors
	now     func() time.Time

	// writeMu serializes mutations of this context; mu guards the mirror.
	writeMu       sync.Mutex
	mu            sync.RWMutex
	listings      []domain.Listing
	events        []domain.EventItem
	subscriptions []domain.SubscriptionPref
	settings      domain.Settings

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int

	signals chan signal
}

// New builds a replica over repo and performs the initial full load.
func New(ctx context.Context, repo Repository, opts Options) *Replica {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	r := &Replica{
		repo:      repo,
		matcher:   &notify.Matcher{Notifier: opts.Notifier},
		metrics:   opts.Metrics,
		now:       now,
		observers: make(map[int]Observer),
		signals:   make(chan signal, 1),
	}
	r.reload(ctx, SourceInitial)
	return r
}

// Subscribe registers fn for mirror changes and returns its unsubscribe func.
func (r *Replica) Subscribe(fn Observer) func() {
	r.obsMu.Lock()
	id := r.nextObsID
	r.nextObsID++
	r.observers[id] = fn
	r.obsMu.Unlock()
	return func() {
		r.obsMu.Lock()
		delete(r.observers, id)
		r.obsMu.Unlock()
	}
}

func (r *Replica) emit(c Change) {
	r.obsMu.Lock()
	obs := make([]Observer, 0, len(r.observers))
	for _, o := range r.observers {
		obs = append(obs, o)
	}
	r.obsMu.Unlock()
	for _, o := range obs {
		o(c)
	}
}

// Snapshot returns a copy of the mirror.
func (r *Replica) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Listings:      append([]domain.Listing{}, r.listings...),
		Events:        append([]domain.EventItem{}, r.events...),
		Subscriptions: append([]domain.SubscriptionPref{}, r.subscriptions...),
		Settings:      r.settings,
	}
}

func (r *Replica) Listings() []domain.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Listing{}, r.listings...)
}

func (r *Replica) Events() []domain.EventItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.EventItem{}, r.events...)
}

func (r *Replica) Subscriptions() []domain.SubscriptionPref {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SubscriptionPref{}, r.subscriptions...)
}

func (r *Replica) Settings() domain.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// Reload replaces the whole mirror with the store's current collections.
func (r *Replica) Reload(ctx context.Context) {
	r.reload(ctx, SourceLocal)
}

// reload holds writeMu from read to assign so a local mutation cannot commit in between
// and be overwritten by the older read.
func (r *Replica) reload(ctx context.Context, src Source) {
	r.writeMu.Lock()
	listings := r.repo.Listings(ctx)
	events := r.repo.Events(ctx)
	subs := r.repo.Subscriptions(ctx)
	settings := r.repo.Settings(ctx)

	r.mu.Lock()
	r.listings, r.events, r.subscriptions, r.settings = listings, events, subs, settings
	r.mu.Unlock()
	r.writeMu.Unlock()

	r.metrics.Reload(string(src))
	log.Debug().Str("source", string(src)).Int("listings", len(listings)).Msg("replica: reloaded")
	r.emit(Change{Keys: domain.Collections, Source: src})
}

// Signal records that key changed elsewhere. Signals from either delivery path collapse
// into one pending reload; unknown keys are ignored. It never blocks.
func (r *Replica) Signal(src Source, key domain.CollectionKey) {
	if !key.Valid() {
		return
	}
	select {
	case r.signals <- signal{key: key, source: src}:
	default:
		// a reload is already pending and will observe this change too
	}
}

// Run performs pending reloads until ctx is cancelled.
func (r *Replica) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-r.signals:
			r.reload(ctx, s.source)
		}
	}
}

// commit writes a whole collection and mirrors it locally.
func (r *Replica) commit(key domain.CollectionKey, write func() error, apply func()) error {
	if err := write(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	r.mu.Lock()
	apply()
	r.mu.Unlock()
	r.metrics.Write(key.String())
	r.emit(Change{Keys: []domain.CollectionKey{key}, Source: SourceLocal})
	return nil
}
