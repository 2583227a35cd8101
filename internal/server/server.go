// Package server exposes the relay over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/prometheus/client_golang/prometheus"
)

// Generator produces tasks for a goal; *relay.Service implements it.
type Generator interface {
	Generate(ctx context.Context, goal string) ([]task.Task, error)
}

// Config holds listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig leaves room in WriteTimeout for a full upstream timeout.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type Server struct {
	generator Generator
	gatherer  prometheus.Gatherer
	openAPI   *openapi3.T
	log       *slog.Logger
	server    *http.Server
}

// New builds the relay server. A nil gatherer disables /metrics.
func New(cfg Config, gen Generator, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		generator: gen,
		gatherer:  gatherer,
		log:       log,
	}

	doc, err := LoadOpenAPI(context.Background())
	if err != nil {
		log.Warn("OpenAPI document unavailable", "error", err)
	} else {
		s.openAPI = doc
	}

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.registerRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured address and serves in a goroutine.
// Listen errors are returned directly; serve errors go to errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.log.Info("relay listening", "addr", ln.Addr().String())

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("relay server error: %w", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
