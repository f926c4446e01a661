package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mallmap-api-go/internal/api/handlers"
	"mallmap-api-go/internal/api/middleware"
	"mallmap-api-go/internal/config"
	"mallmap-api-go/internal/datastore/postgres"
	"mallmap-api-go/internal/redisclient"
	"mallmap-api-go/internal/workflow"
)

// NewRouter creates a new Chi router with all routes and middleware configured
func NewRouter(
	store handlers.Store,
	db *postgres.Client,
	wf workflow.Interface,
	redis *redisclient.Client,
	cfg *config.Config,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Apply middleware stack
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Identity)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Initialize handlers
	floorsHandler := handlers.NewFloorsHandler(store, cfg.PlanImageTimeout, logger)
	slotsHandler := handlers.NewSlotsHandler(store, redis, cfg.SlotCacheTTL, logger)
	shopsHandler := handlers.NewShopsHandler(store, logger)
	requestsHandler := handlers.NewRequestsHandler(wf, store, logger)
	statusHandler := handlers.NewStatusHandler(store, redis, logger)
	healthHandler := handlers.NewHealthHandler(db, redis, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Floors and map
		r.Get("/etages", floorsHandler.HandleList)
		r.Post("/etages", floorsHandler.HandleCreate)
		r.Get("/etages/{id}", floorsHandler.HandleGet)
		r.Get("/etages/{id}/plan.png", floorsHandler.HandlePlan)
		r.Get("/etages/{id}/hit", floorsHandler.HandleHit)

		// Slots
		r.Get("/emplacements", slotsHandler.HandleList)
		r.Post("/emplacements", slotsHandler.HandleCreate)
		r.Get("/emplacements/disponibles", slotsHandler.HandleListAvailable)
		r.Get("/emplacements/etage/{etageId}", slotsHandler.HandleListByFloor)
		r.Get("/emplacements/{id}", slotsHandler.HandleGet)

		// Categories
		r.Get("/categories", shopsHandler.HandleCategories)

		// Shops and tenancies
		r.Get("/boutiques", shopsHandler.HandleList)
		r.Post("/boutiques", shopsHandler.HandleCreate)
		r.Get("/boutiques/mes-boutiques", shopsHandler.HandleListMine)
		r.Get("/boutiques/{id}", shopsHandler.HandleGet)
		r.Get("/locations/actives", shopsHandler.HandleActiveTenancies)

		// Slot requests
		r.Post("/demandes-boutiques", requestsHandler.HandleSubmit)
		r.Get("/demandes-boutiques", requestsHandler.HandleList)
		r.Get("/demandes-boutiques/mes-demandes", requestsHandler.HandleListMine)
		r.Patch("/demandes-boutiques/{id}/statut", requestsHandler.HandleUpdateStatus)

		// Status endpoint
		r.Get("/status", statusHandler.Handle)

		// Health and readiness endpoints
		r.Get("/health", healthHandler.HandleHealth)
		r.Get("/ready", healthHandler.HandleReady)

		// Metrics endpoint
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	})

	return r
}
