// Package server is the HTTP front-end: an upload form, a multipart
// conversion endpoint and a few static assets.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/http/responder"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
	"github.com/leeforge/genico/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server owns the router and the listener lifecycle.
type Server struct {
	cfg        *config.AppConfig
	converter  *processor.Converter
	pages      *templates.Renderer
	logger     logging.Logger
	responders *responder.ResponderFactory
	router     chi.Router
}

type Option func(*Server)

func WithLogger(logger logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func New(cfg *config.AppConfig, converter *processor.Converter, pages *templates.Renderer, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		converter: converter,
		pages:     pages,
		logger:    logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	// A failed write means the client went away; there is nothing left to
	// answer, so it is only logged.
	s.responders = responder.NewResponderFactory(responder.WithPanicFn(
		func(_ http.ResponseWriter, r *http.Request, err error) {
			s.log(r).Warn("write response failed", zap.Error(err))
		},
	))
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Routes exposes the route tree for printing.
func (s *Server) Routes() chi.Routes {
	return s.router
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.logger.Zap()),
	}

	port := s.cfg.Server.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	s.logger.Info(fmt.Sprintf("Serving at http://localhost:%d", port))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")

		timeout := s.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		s.logger.Info("Server closed")
		return nil
	})
	return g.Wait()
}
