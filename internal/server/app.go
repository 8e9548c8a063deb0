package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/services"
)

// Options wires the stores and catalog into a [Server].
type Options struct {
	Addr      string
	Identity  Identity
	Favorites Favorites
	Catalog   services.Catalog
	Collector Collector
	Logger    *log.Logger
}

// Server is the local HTTP view layer.
//
// The identity store holds a single process-wide session, so every client of one
// server shares it. This is meant for local single-user use.
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// New builds the router: auth, catalog listings, favorites and a fallback that redirects to /characters.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	logger := opts.Logger.With("component", "server")

	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))

	router.Handler(NewAuthHandler(opts.Identity, logger))
	router.Handler(NewCatalogHandler(opts.Catalog, opts.Favorites, logger))
	router.Handler(NewFavoritesHandler(opts.Identity, opts.Favorites, opts.Collector, logger))
	router.Fallback(http.RedirectHandler("/characters", http.StatusFound))

	return &Server{addr: opts.Addr, router: router, logger: logger}
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}
