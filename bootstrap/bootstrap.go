// Package bootstrap assembles a running server context. Both the standalone binary and the
// serverless handler in api/ start from here.
package bootstrap

import (
	"context"
	"os"

	"ssf-backend/internal/app"
	"ssf-backend/internal/config"
	"ssf-backend/internal/interfaces/router"
	"ssf-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Server is one started context and the Fiber app serving it.
type Server struct {
	Config  *config.Config
	App     *fiber.App
	Runtime *app.Runtime
	DB      *gorm.DB
	Rdb     *redis.Client
}

// ConfigureLogging sets the global zerolog level, with console output outside production.
func ConfigureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// New loads config, opens storage, starts the context and builds the app.
func New(ctx context.Context) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	ConfigureLogging(cfg)

	db, rdb, err := app.Connect(cfg)
	if err != nil {
		return nil, err
	}
	rt, err := app.New(ctx, cfg, app.Deps{DB: db, Rdb: rdb, Metrics: metrics.New()})
	if err != nil {
		return nil, err
	}
	rt.Start(ctx)

	return &Server{
		Config:  cfg,
		App:     router.CreateApp(cfg, rt, db, rdb),
		Runtime: rt,
		DB:      db,
		Rdb:     rdb,
	}, nil
}

// Close stops the context, then releases Redis and the database.
func (s *Server) Close() {
	if err := s.Runtime.Close(); err != nil {
		log.Warn().Err(err).Msg("close context")
	}
	if s.Rdb != nil {
		_ = s.Rdb.Close()
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
