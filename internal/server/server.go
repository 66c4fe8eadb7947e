package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/reptracker/internal/tracker"
)

// maxImportBytes bounds the size of an uploaded backup.
const maxImportBytes = 10 << 20

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      *tracker.Service
	log      *slog.Logger
	metrics  *Metrics
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New creates a new Server with all routes configured. metrics are recorded
// into reg and exposed at /metrics.
func New(svc *tracker.Service, reg *prometheus.Registry, metrics *Metrics, log *slog.Logger) *Server {
	s := &Server{
		svc:      svc,
		log:      log,
		metrics:  metrics,
		gatherer: reg,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.metrics))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/days/{date}", s.handleDay)

		r.Post("/logs", s.handleLogReps)
		r.Post("/logs/quick", s.handleQuickAdd)
		r.Delete("/logs/{id}", s.handleDeleteLog)

		r.Get("/types", s.handleListTypes)
		r.Post("/types", s.handleCreateType)
		r.Put("/types/{id}", s.handleUpdateType)
		r.Post("/types/{id}/archive", s.handleArchiveType)

		r.Put("/settings/goal", s.handleSetGoal)
		r.Put("/settings/start-date", s.handleSetStartDate)

		r.Get("/export/{format}", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Get("/imports", s.handleImportLogs)
		r.Post("/reset", s.handleReset)
	})
}

// SetMCP mounts a streamable HTTP MCP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
