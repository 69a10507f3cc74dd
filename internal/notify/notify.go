package notify

import (
	"context"
	"time"

	"ssf-backend/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string)
}

// Notification is one delivered message.
type Notification struct {
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// Sink is one delivery channel. Deliver must treat missing platform permission as a no-op.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

// Fanout delivers every notification to all sinks concurrently. A failing or panicking
// sink does not affect the others.
type Fanout struct {
	Sinks   []Sink
	Metrics *metrics.Collectors
	Now     func() time.Time
	// Go runs a delivery in the background so Notify returns at once. When nil, Notify
	// waits for every sink.
	Go func(func())
}

func NewFanout(m *metrics.Collectors, sinks ...Sink) *Fanout {
	return &Fanout{Sinks: sinks, Metrics: m, Now: time.Now}
}

func (f *Fanout) Notify(ctx context.Context, title, body string) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	n := Notification{Title: title, Body: body, At: now()}
	if f.Go == nil {
		f.deliver(ctx, n)
		return
	}
	// the caller's context may end with its request
	ctx = context.WithoutCancel(ctx)
	f.Go(func() { f.deliver(ctx, n) })
}

func (f *Fanout) deliver(ctx context.Context, n Notification) {
	var wg conc.WaitGroup
	for _, sink := range f.Sinks {
		sink := sink
		wg.Go(func() {
			if err := sink.Deliver(ctx, n); err != nil {
				log.Warn().Err(err).Str("sink", sink.Name()).Msg("notify: delivery failed")
				f.Metrics.Notification(sink.Name(), "failed")
				return
			}
			f.Metrics.Notification(sink.Name(), "delivered")
		})
	}
	if r := wg.WaitAndRecover(); r != nil {
		log.Error().Str("panic", r.String()).Msg("notify: sink panicked")
	}
}
