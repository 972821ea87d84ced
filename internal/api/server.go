// Package api exposes the mortgage calculator over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/internal/service"
)

// Route paths.
const (
	CalculatePath  = "/api/v1/mortgage_calculations/calculate"
	ComparisonPath = "/api/v1/mortgage_calculations/scenario_comparison"
	HealthPath     = "/health"
	MetricsPath    = "/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP server and its rate limiter.
type Server struct {
	http    *http.Server
	limiter *RateLimiter
	logger  *slog.Logger
}

func NewServer(cfg *config.Config, calc service.Calculator, logger *slog.Logger) *Server {
	limiter := NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	handler := NewMortgageHandler(calc, logger)

	mux := http.NewServeMux()
	mux.Handle(CalculatePath, withRequestLogging(logger, "calculate",
		rateLimitMiddleware(limiter, http.HandlerFunc(handler.Calculate))))
	mux.Handle(ComparisonPath, withRequestLogging(logger, "scenario_comparison",
		rateLimitMiddleware(limiter, http.HandlerFunc(handler.ScenarioComparison))))
	mux.Handle(HealthPath, http.HandlerFunc(Health))
	mux.Handle(MetricsPath, promhttp.Handler())

	return &Server{
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server exited")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.limiter.Stop()
}
