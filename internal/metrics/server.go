package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves /metrics for one registry on its own port, apart from the
// public API.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	log        *slog.Logger
}

// NewServer creates a metrics server for reg. Port 0 picks a free port once
// Listen is called.
func NewServer(port int, reg prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: slog.With("component", "metrics"),
	}
}

// Handler returns the scrape handler for reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Listen binds the port without serving yet.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr is the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Start listens if needed and serves until Shutdown.
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			s.log.Error("Metrics server failed to listen", "error", err)
			return err
		}
	}

	s.log.Info("Starting metrics server", "addr", s.Addr())
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("Metrics server error", "error", err)
		return err
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
