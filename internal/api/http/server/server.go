package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/authkit/server/internal/logger"
	"github.com/authkit/server/internal/model"
)

// Server wraps http.Server behind the model.Server interface so the entry
// point can swap the plain listener for TLS without touching this code.
type Server struct {
	httpServer *http.Server
	address    string
	logger     *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new HTTP server serving the given handler on addr.
func NewServer(addr string, handler http.Handler, logger *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{Handler: handler},
		address:    addr,
		logger:     logger,
	}
}

// Start binds a listener through the security layer and serves until Stop is
// called. It blocks; http.ErrServerClosed is swallowed as a clean shutdown.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("HTTP server: listening",
		"address", listener.Addr().String())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests up
// to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server: shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the bound listener address once started, otherwise the
// configured one.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.address
}
