package sampleapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// errParameterOutOfRange indicates a demo endpoint parameter outside its
// allowed range.
var errParameterOutOfRange = errors.New("parameter out of range")

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 10 * time.Second

// Server is the sample HTTP service.
type Server struct {
	settings  Settings
	logger    *logrus.Logger
	metrics   *metrics
	router    chi.Router
	startTime time.Time
	started   atomic.Bool
}

// NewServer creates the sample service with its routes and metrics wired.
func NewServer(settings Settings, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}

	server := &Server{
		settings:  settings,
		logger:    logger,
		metrics:   newMetrics(),
		startTime: time.Now(),
	}

	server.metrics.setVersion(settings.Version)
	server.router = server.routes()

	return server
}

// Handler returns the HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	router.Use(requestID)
	router.Use(requestLogger(s.logger))
	router.Use(instrument(s.metrics))

	router.Get("/", s.handleIndex)

	router.Route("/health", func(router chi.Router) {
		router.Get("/live", s.handleLive)
		router.Get("/ready", s.handleReady)
		router.Get("/startup", s.handleStartup)
	})

	router.Route("/api", func(router chi.Router) {
		router.Get("/version", s.handleVersion)
		router.Get("/info", s.handleInfo)
		router.Get("/changelog", s.handleChangelog)
	})

	router.Route("/demo", func(router chi.Router) {
		router.Get("/slow", s.handleSlow)
		router.Get("/error", s.handleError)
		router.Get("/cpu", s.handleCPU)
		router.Get("/memory", s.handleMemory)
	})

	router.Method(
		http.MethodGet,
		"/metrics",
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}),
	)

	return router
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully
// within the configured grace period.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.settings.Port),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	s.logger.WithFields(logrus.Fields{
		"port":    s.settings.Port,
		"version": s.settings.Version,
	}).Info("sample-api listening")

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.ShutdownGrace)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
