package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/hyperpart/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultMaxBodyBytes = 64 << 20
	DefaultTimeout      = 2 * time.Minute
	shutdownTimeout     = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Runner executes partition requests. Required.
	Runner *pipeline.Runner

	// Logger receives access logs; nil discards them.
	Logger *log.Logger

	// MaxBodyBytes bounds request bodies (default DefaultMaxBodyBytes).
	MaxBodyBytes int64

	// Timeout bounds a single partition request (default DefaultTimeout).
	Timeout time.Duration

	// Gatherer, when set, is served at /metrics.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP partitioning service.
type Server struct {
	cfg     Config
	handler http.Handler
}

// New creates a server. It panics if cfg.Runner is nil.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		panic("api: nil runner")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &Server{cfg: cfg}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.cfg.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
