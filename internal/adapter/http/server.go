// Package http serves the evacuation advisory API alongside health,
// readiness, and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/advisor"
	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Advisor is the set of advisory operations the API exposes.
type Advisor interface {
	CheckReadiness(ctx context.Context) error
	Shelters() []domain.Shelter
	Assess(ctx context.Context, origin domain.Coordinate) advisor.Assessment
	RouteNearest(ctx context.Context, origin domain.Coordinate) (advisor.RouteToNearest, error)
	RankNearest(ctx context.Context, origin domain.Coordinate, limit int) ([]domain.RankedRoute, error)
	ResolveCity(ctx context.Context, city, country string) (domain.GeocodingResult, error)
	DescribeLocation(ctx context.Context, at domain.Coordinate) domain.Place
}

// Server exposes the API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	advisor    Advisor
	logger     *slog.Logger
}

// NewServer creates the HTTP server. rateLimitRPS caps API requests per
// client per second; 0 disables the limit.
func NewServer(addr string, adv Advisor, rateLimitRPS int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		advisor: adv,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(adv))
	mux.Handle("GET /metrics", promhttp.Handler())

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/assessment", s.handleAssessment)
	api.HandleFunc("GET /api/v1/shelters", s.handleShelters)
	api.HandleFunc("GET /api/v1/shelters/nearest", s.handleNearestShelters)
	api.HandleFunc("GET /api/v1/route", s.handleRoute)
	api.HandleFunc("GET /api/v1/routes", s.handleRoutes)
	api.HandleFunc("GET /api/v1/geocode", s.handleGeocode)
	api.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)

	var apiHandler http.Handler = api
	if rateLimitRPS > 0 {
		apiHandler = newRateLimiter(rateLimitRPS).middleware(apiHandler)
	}
	mux.Handle("/api/", apiHandler)

	s.httpServer.Handler = requestLogging(logger)(gzhttp.GzipHandler(mux))
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
