package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/rmx/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP view layer until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Addr:      addr,
		Identity:  r.identity,
		Favorites: r.favorites,
		Catalog:   r.catalog,
		Collector: r.collector,
		Logger:    r.logger,
	})

	r.writePlain("Serving on http://%s (Ctrl+C to stop)\n", addr)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
