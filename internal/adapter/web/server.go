package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"moodpoet/internal/infra/config"
)

// Server runs the HTTP surface.
type Server struct {
	server    *http.Server
	logger    *slog.Logger
	addr      string
	boundAddr string
	errCh     chan error
}

// NewServer creates a server for handler using the configured timeouts.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger: logger,
		addr:   cfg.Addr,
		errCh:  make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Request contexts
// carry ctx's values but not its cancellation, so requests in flight during
// Shutdown run to completion.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.boundAddr = ln.Addr().String()
	base := context.WithoutCancel(ctx)
	s.server.BaseContext = func(net.Listener) context.Context { return base }

	go func() {
		s.logger.Info("http server started", "addr", s.boundAddr)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
			s.errCh <- err
		}
		close(s.errCh)
	}()
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string { return s.boundAddr }

// Err is closed when the server stops and carries the serve error, if any.
func (s *Server) Err() <-chan error { return s.errCh }

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}
