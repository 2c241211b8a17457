package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ovn-tools/egresswatch/internal/api/handlers"
	"github.com/ovn-tools/egresswatch/internal/api/middleware"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/metrics"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Analysis *handlers.AnalysisHandler
	Monitor  *handlers.MonitorHandler
	Trend    *handlers.TrendHandler
	Summary  *handlers.SummaryHandler
	PerfTest *handlers.PerfTestHandler
}

func New(log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS())

	// Health checks
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)

	// Prometheus metrics
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Per-node analysis and monitoring
		r.Route("/nodes/{node}", func(r chi.Router) {
			r.Get("/analysis", h.Analysis.Analyze)
			r.Get("/snapshot", h.Monitor.Snapshot)
			r.Post("/monitor", h.Monitor.Monitor)
		})

		// Cross-node comparison
		r.Get("/compare", h.Analysis.Compare)

		// Trends
		r.Route("/trends/{metricType}", func(r chi.Router) {
			r.Get("/", h.Trend.Recent)
			r.Post("/analyze", h.Trend.Analyze)
		})

		// Aggregate summary
		r.Get("/summary", h.Summary.Summary)

		// Performance tests
		r.Post("/perftests", h.PerfTest.Run)
	})

	return r
}
