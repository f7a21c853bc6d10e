// Package http assembles the dashboard's HTTP surface: the chi route tree,
// its middleware chain, and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/readiness-dashboard/internal/interfaces/http/handlers"
	"github.com/turtacn/readiness-dashboard/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil entries are skipped.
type RouterConfig struct {
	DashboardHandler *handlers.DashboardHandler
	HealthHandler    *handlers.HealthHandler

	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		lc := middleware.DefaultLoggingConfig()
		if cfg.Logging != nil {
			lc = *cfg.Logging
		}
		r.Use(middleware.RequestLogging(cfg.Logger, lc))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	// Scraped from inside the cluster only.
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.NotFound(handlers.NotFound(cfg.Logger))

	r.Route("/api/v1", func(api chi.Router) {
		registerDashboardRoutes(api, cfg.DashboardHandler)
	})

	return r
}

func registerDashboardRoutes(r chi.Router, h *handlers.DashboardHandler) {
	if h == nil {
		return
	}
	r.Get("/options", h.Options)
	r.Get("/countries", h.Countries)
	r.Get("/dashboard", h.View)
	r.Route("/records", func(rr chi.Router) {
		rr.Get("/", h.Records)
		rr.Get("/export", h.Export)
	})
	r.Post("/dataset/reload", h.Reload)
}

//Personal.AI order the ending
