// Package app assembles one execution context: its replica, both change delivery paths
// feeding it, the expiry sweeper and the notification sinks.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ssf-backend/internal/broadcast"
	"ssf-backend/internal/config"
	"ssf-backend/internal/domain"
	"ssf-backend/internal/infrastructure/database"
	"ssf-backend/internal/metrics"
	"ssf-backend/internal/notify"
	"ssf-backend/internal/replica"
	"ssf-backend/internal/store"
	"ssf-backend/internal/sweeper"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"gorm.io/gorm"
)

// Deps are the shared resources a context attaches to.
type Deps struct {
	DB *gorm.DB
	// Rdb selects the Redis broadcaster. When nil the context joins Hub instead.
	Rdb     *redis.Client
	Hub     *broadcast.Hub
	Metrics *metrics.Collectors
	// Desktop replaces the OS notification sink.
	Desktop notify.Sink
	Now     func() time.Time
}

// Runtime is one live context. Start launches its background loops; Close disposes of
// every loop and subscription it owns.
type Runtime struct {
	ID          string
	Store       *store.Store
	Broadcaster broadcast.Broadcaster
	Watcher     *store.Watcher
	Replica     *replica.Replica
	Sweeper     *sweeper.Sweeper
	Toasts      *notify.Toasts
	Metrics     *metrics.Collectors

	unsubscribe []func()
	cancel      context.CancelFunc
	wg          conc.WaitGroup
	closeOnce   sync.Once
}

// Connect opens the durable store database and, when configured, the Redis client.
func Connect(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.RedisURL == "" {
		return db, nil, nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return db, redis.NewClient(opt), nil
}

// New builds the context named cfg.ContextID and performs its initial load. Background
// work does not begin until Start.
func New(ctx context.Context, cfg *config.Config, deps Deps) (*Runtime, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("app: database is required")
	}

	var bc broadcast.Broadcaster
	if deps.Rdb != nil {
		r, err := broadcast.NewRedis(ctx, deps.Rdb, cfg.BroadcastChannel, cfg.ContextID)
		if err != nil {
			return nil, err
		}
		bc = r
	} else {
		hub := deps.Hub
		if hub == nil {
			hub = broadcast.NewHub()
		}
		bc = hub.Join(cfg.ContextID)
	}

	st := store.New(deps.DB, cfg.ContextID, bc)
	if deps.Now != nil {
		st.Now = deps.Now
	}

	toasts := notify.NewToasts(cfg.ToastTTL)
	desktop := deps.Desktop
	if desktop == nil {
		perm := notify.ParsePermission(cfg.NotifyPermission)
		desktop = notify.NewDesktop(func() notify.Permission { return perm })
	}
	fanout := notify.NewFanout(deps.Metrics, toasts, desktop)
	if deps.Now != nil {
		toasts.Now = deps.Now
		fanout.Now = deps.Now
	}

	rep := replica.New(ctx, st, replica.Options{Notifier: fanout, Metrics: deps.Metrics, Now: deps.Now})

	sw := sweeper.New(rep, cfg.SweepInterval, deps.Metrics)
	if deps.Now != nil {
		sw.Now = deps.Now
	}

	rt := &Runtime{
		ID:          cfg.ContextID,
		Store:       st,
		Broadcaster: bc,
		Watcher:     store.NewWatcher(st, cfg.StoragePollInterval),
		Replica:     rep,
		Sweeper:     sw,
		Toasts:      toasts,
		Metrics:     deps.Metrics,
	}
	fanout.Go = rt.wg.Go
	rt.unsubscribe = append(rt.unsubscribe,
		bc.Subscribe(func(key domain.CollectionKey) { rep.Signal(replica.SourceBroadcast, key) }),
		rt.Watcher.Subscribe(func(key domain.CollectionKey) { rep.Signal(replica.SourceStorage, key) }),
	)
	return rt, nil
}

// Start runs the reload loop, the storage watcher and the sweeper until ctx is cancelled
// or Close is called. The sweeper runs once immediately.
func (rt *Runtime) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	rt.cancel = cancel
	rt.wg.Go(func() { rt.Replica.Run(runCtx) })
	rt.wg.Go(func() { rt.Watcher.Run(runCtx) })
	rt.wg.Go(func() { rt.Sweeper.Run(runCtx) })
	log.Info().Str("context", rt.ID).Msg("context started")
}

// Close stops all background work, waits for notifications still being delivered and
// detaches from the broadcast channel. It is safe to
// call more than once and on a runtime that was never started.
func (rt *Runtime) Close() error {
	var err error
	rt.closeOnce.Do(func() {
		for _, unsubscribe := range rt.unsubscribe {
			unsubscribe()
		}
		if rt.cancel != nil {
			rt.cancel()
		}
		rt.wg.Wait()
		err = rt.Broadcaster.Close()
		log.Info().Str("context", rt.ID).Msg("context closed")
	})
	return err
}
