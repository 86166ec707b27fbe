// Package http exposes the portal's orchestrators over a thin gin-based API.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eprcore/registration-portal/internal/config"
)

// Server wraps the standard library HTTP server with the portal's timeouts.
type Server struct {
	srv *http.Server
}

// NewServer builds the HTTP server around an assembled router.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start serves until the listener closes. It returns nil on a clean
// shutdown.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
