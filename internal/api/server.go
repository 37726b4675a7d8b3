// Package api serves the warehouse schema, sample rows, dashboard fixture and
// simulated pipeline over a small read-mostly JSON API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/fixtures"
	"github.com/jask/etlstudio/internal/logging"
	"github.com/jask/etlstudio/internal/pipeline"
	"github.com/jask/etlstudio/internal/service"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string // empty = any origin

	Schema    *repository.SchemaRepo
	Export    *service.ExportService
	Runner    *pipeline.Runner
	Dashboard fixtures.Dashboard
	Logger    *slog.Logger
	StartTime time.Time

	// RunContext bounds pipeline runs started over HTTP.
	RunContext context.Context
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	cfg.Logger = logging.WithComponent(cfg.Logger, "api")
	if cfg.RunContext == nil {
		cfg.RunContext = context.Background()
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           corsHandler.Handler(NewRouter(cfg)),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
