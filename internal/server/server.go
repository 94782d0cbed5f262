package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
)

// Server wraps the reference remote's HTTP listener.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

func NewServer(handler *Handler, cfg config.ServerConfig, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddress,
			Handler: handler.Init(),
		},
		logger: log,
	}
}

// Run blocks serving requests until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("reference remote listening")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Str("func", "Server.Shutdown").Msg("http server shutdown")
	}
}
