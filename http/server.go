// Package http serves the three-screen assessment flow and the JSON
// API over the shared read-only model.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"riskscreen/ml"
	"riskscreen/monitoring"
	"riskscreen/risk"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
}

// DefaultServerConfig mirrors the config file defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

// Deps are the startup-initialized services the handlers need. Scorer
// and Pipeline must come from the same training run.
type Deps struct {
	Scorer   *risk.Scorer
	Pipeline *ml.FittedPipeline
	Hub      *monitoring.ActivityHub
	Logger   *zap.Logger
	// Persist enables assessment history writes; requires db.InitDB.
	Persist bool
}

// Server wraps the stdlib server with the middleware chain.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

func NewServer(config ServerConfig, deps Deps) *Server {
	application := &app{
		scorer:   deps.Scorer,
		fields:   fieldsFor(deps.Scorer.Features()),
		sessions: NewSessionStore(1024, 30*time.Minute),
		hub:      deps.Hub,
		logger:   deps.Logger,
		persist:  deps.Persist,
	}
	api := &apiHandlers{
		app: application,
		info: modelInfo{
			Features:   deps.Pipeline.Features,
			Importance: deps.Pipeline.Model.FeatureImportance(),
			Metrics:    deps.Pipeline.Metrics,
		},
	}

	mux := http.NewServeMux()
	application.registerPages(mux)
	api.register(mux)
	mux.Handle("GET /metrics", monitoring.MetricsHandler())

	chain := Chain(
		RecoveryMiddleware(deps.Logger),
		LoggerMiddleware(deps.Logger),
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		TimeoutMiddleware(config.Timeout),
		GzipMiddleware,
	)

	// The websocket route bypasses the chain: timeout and gzip
	// wrappers cannot hijack the connection.
	root := http.NewServeMux()
	if deps.Hub != nil {
		root.HandleFunc("GET /api/ws/activity", deps.Hub.ServeWS)
	}
	root.Handle("/", chain(mux))

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      root,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout + 5*time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Start blocks serving until Stop or failure.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
