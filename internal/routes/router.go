package routes

import (
	"context"
	"net/http"
	"time"

	"poolpass/syncbridge/internal/api"
	"poolpass/syncbridge/internal/db"
	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/metrics"
	"poolpass/syncbridge/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// mountWebhookRoutes registers the inbound webhook endpoints. Token
// validation happens in the handler, so no auth middleware on this
// subtree, and CORS is wide open because callers are arbitrary provider
// backends.
func mountWebhookRoutes(r chi.Router, handler http.HandlerFunc) {
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Post("/webhooks/{integrationID}", handler)
		r.Post("/webhooks", handler)
	})
}

func RegisterRoutes(upSince time.Time) (http.Handler, *api.Dependencies) {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Start the sync scheduler; it reloads persisted schedules and keeps
	// them firing until Stop is called during shutdown.
	if err := deps.Services.Scheduler.Start(context.Background()); err != nil {
		panic("Failed to start sync scheduler: " + err.Error())
	}

	mountWebhookRoutes(r, api.WebhookHandler(deps))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Host-Id"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))

		r.Get("/providers", api.ListProvidersHandler(deps))

		r.Route("/integrations", func(r chi.Router) {
			r.Post("/", api.CreateIntegrationHandler(deps))
			r.Get("/", api.ListIntegrationsHandler(deps))

			r.Route("/{integrationID}", func(r chi.Router) {
				r.Delete("/", api.DeleteIntegrationHandler(deps))
				r.Patch("/status", api.ToggleIntegrationHandler(deps))
				r.Post("/test", api.TestIntegrationHandler(deps))
				r.Get("/webhook-url", api.WebhookURLHandler(deps))

				r.Post("/import", api.ImportPoolsHandler(deps))
				r.Get("/mappings", api.ListPoolMappingsHandler(deps))
				r.Get("/availability", api.AvailabilityHandler(deps))

				r.Post("/sync", api.TriggerSyncHandler(deps))
				r.Post("/schedules", api.CreateScheduleHandler(deps))
				r.Delete("/schedules/{syncType}", api.DeleteScheduleHandler(deps))
				r.Get("/logs", api.ListSyncLogsHandler(deps))
			})
		})

		r.Route("/mappings", func(r chi.Router) {
			r.Post("/{mappingID}/pool", api.MaterializePoolHandler(deps))
		})

		r.Route("/conflicts", func(r chi.Router) {
			r.Get("/", api.ListConflictsHandler(deps))
			r.Post("/{conflictID}/resolve", api.ResolveConflictHandler(deps))
		})

		r.Get("/notifications", api.ListNotificationsHandler(deps))
	})

	return r, deps
}
