package store

import (
	"context"
	"sync"
	"time"

	"ssf-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// Watcher reports writes made to the store by other contexts. It is the fallback delivery
// path for contexts that missed a broadcast: the collections table is polled and any
// revision advanced by a foreign origin is reported once.
type Watcher struct {
	store    *Store
	interval time.Duration

	mu       sync.Mutex
	seen     map[domain.CollectionKey]int64
	primed   bool
	handlers map[int]func(domain.CollectionKey)
	nextID   int
}

// NewWatcher polls s every interval once Run is called.
func NewWatcher(s *Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		store:    s,
		interval: interval,
		seen:     make(map[domain.CollectionKey]int64),
		handlers: make(map[int]func(domain.CollectionKey)),
	}
}

// Subscribe registers h for external writes and returns its unsubscribe func.
func (w *Watcher) Subscribe(h func(domain.CollectionKey)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = h
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// Poll compares the stored revisions with the last ones seen. The first poll only records
// the baseline.
func (w *Watcher) Poll(ctx context.Context) error {
	revs, err := w.store.Revisions(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	var changed []domain.CollectionKey
	for _, key := range domain.Collections {
		rev, ok := revs[key]
		if !ok {
			continue
		}
		last := w.seen[key]
		w.seen[key] = rev.Number
		if w.primed && rev.Number > last && rev.Origin != w.store.Origin {
			changed = append(changed, key)
		}
	}
	w.primed = true
	handlers := make([]func(domain.CollectionKey), 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	for _, key := range changed {
		for _, h := range handlers {
			h(key)
		}
	}
	return nil
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if err := w.Poll(ctx); err != nil {
		log.Warn().Err(err).Msg("store watcher: initial poll failed")
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Poll(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("store watcher: poll failed")
			}
		}
	}
}
