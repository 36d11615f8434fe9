// Package server exposes the comparison engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/matchup-engine/internal/config"
	"github.com/yourusername/matchup-engine/internal/metrics"
	"github.com/yourusername/matchup-engine/internal/service"
)

// Server is the public API server.
type Server struct {
	cfg        *config.ServerConfig
	comparison *service.ComparisonService
	logger     *logrus.Logger
	limiter    *rate.Limiter
	httpServer *http.Server
}

// NewServer creates the API server.
func NewServer(cfg *config.ServerConfig, comparison *service.ComparisonService, logger *logrus.Logger) *Server {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 50
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = int(rps)
	}

	return &Server{
		cfg:        cfg,
		comparison: comparison,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Router builds the route table. Exposed separately so tests can drive
// handlers without binding a port.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)
	r.Use(s.rateLimit)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/matchups", s.handleCompare).Methods(http.MethodPost)
	api.HandleFunc("/teams/{id}/form", s.handleTeamForm).Methods(http.MethodGet)
	api.HandleFunc("/cache/stats", s.handleCacheStats).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
