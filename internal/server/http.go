package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/config"
)

// HTTPService runs an http.Server as a lifecycle Service with graceful
// shutdown.
type HTTPService struct {
	logger          *zap.Logger
	srv             *http.Server
	shutdownTimeout time.Duration

	mu sync.Mutex
	ln net.Listener
}

// NewHTTPService creates an HTTP service bound to cfg.Addr().
//
// Precondition: logger and handler must be non-nil.
func NewHTTPService(logger *zap.Logger, cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		logger: logger,
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Start listens and serves until Stop is called.
//
// Postcondition: Returns nil on graceful shutdown, or the listen/serve error.
func (s *HTTPService) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the shutdown timeout.
func (s *HTTPService) Stop() {
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown incomplete", zap.Error(err))
	}
}

// Addr returns the bound listener address once Start has been called, or the
// configured address before that.
func (s *HTTPService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}
