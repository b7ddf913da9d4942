// Package server wires the route table into a configured http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/foliostack/foliostack-go/internal/application/container"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/presentation/http/routes"
	"github.com/foliostack/foliostack-go/pkg/config"
)

// Server owns the HTTP listener lifecycle. Timeouts come from config so an
// operator can tune them without a rebuild.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New builds the server around the container's route table.
func New(port string, c *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      routes.SetupRoutes(c),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		logger: c.Logger,
	}
}

// Start listens until the server is stopped. A graceful shutdown is not an
// error.
func (s *Server) Start() error {
	s.logger.System().Info("HTTP server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Draining HTTP connections")
	return s.httpServer.Shutdown(ctx)
}
