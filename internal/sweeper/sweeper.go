// Package sweeper enforces the time-based end of the listing lifecycle.
package sweeper

import (
	"context"
	"time"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/metrics"

	"github.com/rs/zerolog/log"
)

// DefaultInterval is the wall-clock period between sweeps.
const DefaultInterval = 30 * time.Second

// Writer applies a transform to the authoritative listings through the normal mutation
// path. fn sees the collection as currently stored and reports whether it changed it.
type Writer interface {
	SweepListings(ctx context.Context, fn func([]domain.Listing) ([]domain.Listing, bool)) error
}

// Sweeper marks and deletes expired listings.
type Sweeper struct {
	Writer   Writer
	Interval time.Duration
	Metrics  *metrics.Collectors
	Now      func() time.Time
}

func New(w Writer, interval time.Duration, m *metrics.Collectors) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{Writer: w, Interval: interval, Metrics: m, Now: time.Now}
}

// Expire returns items without any listing that is expired at now. Active listings past
// their expiry are marked expired first; expired listings are never retained.
func Expire(items []domain.Listing, now time.Time) (kept []domain.Listing, expired int) {
	kept = make([]domain.Listing, 0, len(items))
	for _, l := range items {
		if l.Status.Active() && l.IsExpired(now) {
			l.Status = domain.StatusExpired
			expired++
		}
		if l.Status == domain.StatusExpired {
			continue
		}
		kept = append(kept, l)
	}
	return kept, expired
}

// SweepOnce runs a single pass and reports how many listings it removed. Nothing is
// written when no listing changed, so consecutive sweeps settle after one write.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0
	err := s.Writer.SweepListings(ctx, func(current []domain.Listing) ([]domain.Listing, bool) {
		kept, expired := Expire(current, now)
		removed = len(current) - len(kept)
		return kept, expired > 0 || removed > 0
	})
	if err != nil {
		return 0, err
	}
	s.Metrics.Sweep(removed)
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("sweeper: expired listings removed")
	}
	return removed, nil
}

// Run sweeps immediately and then every Interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("sweeper: write failed")
	}
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
