package router

import (
	"ssf-backend/internal/app"
	analyticssvc "ssf-backend/internal/application/analytics"
	eventsvc "ssf-backend/internal/application/events"
	listsvc "ssf-backend/internal/application/listings"
	settingsvc "ssf-backend/internal/application/settings"
	subsvc "ssf-backend/internal/application/subscriptions"
	"ssf-backend/internal/config"
	"ssf-backend/internal/health"
	analyticshandler "ssf-backend/internal/interfaces/handlers/analytics"
	eventhandler "ssf-backend/internal/interfaces/handlers/events"
	listhandler "ssf-backend/internal/interfaces/handlers/listings"
	notifhandler "ssf-backend/internal/interfaces/handlers/notifications"
	settingshandler "ssf-backend/internal/interfaces/handlers/settings"
	subhandler "ssf-backend/internal/interfaces/handlers/subscriptions"
	"ssf-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app serving one context's replica. rdb may be nil.
func CreateApp(cfg *config.Config, rt *app.Runtime, db *gorm.DB, rdb *redis.Client) *fiber.App {
	fapp := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	fapp.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))
	fapp.Use(middleware.Tracing())
	fapp.Use(middleware.RouteLogger())
	fapp.Use(middleware.HealthMarker(rdb))

	var pinger health.DBPinger
	if db != nil {
		pinger = &gormDBPinger{db: db}
	}
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             pinger,
		Replica:        rt.Replica,
		ContextID:      rt.ID,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	fapp.Get("/", healthHandlers.Dashboard)
	fapp.Get("/health/json", healthHandlers.JSON)
	fapp.Get("/health/reset", healthHandlers.Reset)
	fapp.Get("/health/errors", healthHandlers.Errors)
	fapp.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))

	api := fapp.Group("/api/v1")

	listingsHandlers := &listhandler.Handlers{Service: &listsvc.Service{Replica: rt.Replica}}
	listingsGroup := api.Group("/listings")
	listingsGroup.Get("/", listingsHandlers.List)
	listingsGroup.Post("/", listingsHandlers.Publish)
	listingsGroup.Get("/categories", listingsHandlers.Categories)
	listingsGroup.Patch("/:id", listingsHandlers.Update)
	listingsGroup.Delete("/:id", listingsHandlers.Remove)
	listingsGroup.Post("/:id/claim", listingsHandlers.Claim)
	listingsGroup.Post("/:id/collect", listingsHandlers.Collect)

	eventHandlers := &eventhandler.Handlers{Service: &eventsvc.Service{Replica: rt.Replica}}
	eventsGroup := api.Group("/events")
	eventsGroup.Get("/", eventHandlers.List)
	eventsGroup.Post("/", eventHandlers.Create)
	eventsGroup.Get("/reminders", eventHandlers.Reminders)
	eventsGroup.Patch("/:id", eventHandlers.Update)
	eventsGroup.Post("/:id/log-surplus", eventHandlers.LogSurplus)

	subHandlers := &subhandler.Handlers{Service: &subsvc.Service{Replica: rt.Replica}}
	subsGroup := api.Group("/subscriptions")
	subsGroup.Get("/", subHandlers.List)
	subsGroup.Post("/", subHandlers.Create)
	subsGroup.Patch("/:id", subHandlers.Update)

	settingsHandlers := &settingshandler.Handlers{Service: &settingsvc.Service{Replica: rt.Replica}}
	api.Get("/settings", settingsHandlers.Get)
	api.Put("/settings", settingsHandlers.Replace)

	analyticsHandlers := &analyticshandler.Handlers{Service: &analyticssvc.Service{Replica: rt.Replica, Location: cfg.Location()}}
	api.Get("/analytics", analyticsHandlers.Report)

	notifHandlers := &notifhandler.Handlers{Toasts: rt.Toasts}
	api.Get("/notifications", notifHandlers.Active)

	return fapp
}
