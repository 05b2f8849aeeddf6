package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/quantumventures/credentials/credentials"
	"github.com/quantumventures/credentials/internal/config"
	"github.com/quantumventures/credentials/internal/provider"
)

const healthCacheTTL = 60 * time.Second

// HealthChecker reports the state of the secret providers.
type HealthChecker interface {
	Health(ctx context.Context) []provider.ProviderHealth
}

type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	health   HealthChecker
	creds    *credentials.Credentials
	gatherer prometheus.Gatherer

	healthMu        sync.RWMutex
	healthCached    *HealthResponse
	healthCheckedAt time.Time
}

func NewServer(cfg *config.Config, health HealthChecker) *Server {
	s := &Server{
		cfg:      cfg,
		health:   health,
		gatherer: prometheus.DefaultGatherer,
	}
	s.router = chi.NewRouter()
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.mountRoutes()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) SetCredentials(c *credentials.Credentials) {
	s.creds = c
}

func (s *Server) SetGatherer(g prometheus.Gatherer) {
	s.gatherer = g
}

func (s *Server) mountRoutes() {
	// Public (no auth)
	s.router.Get("/v1/health", s.handleHealth)
	s.router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})

	// Protected routes (bearer token required when APIToken is set)
	s.router.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Get("/v1/descriptor", s.handleDescriptor)
	})
}

func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("qvcreds listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}
