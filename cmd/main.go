package main

import (
	"context"
	"net/http"
	"os"

	"github.com/desertthunder/rmx/internal/favorites"
	"github.com/desertthunder/rmx/internal/identity"
	"github.com/desertthunder/rmx/internal/repositories"
	"github.com/desertthunder/rmx/internal/services"
	"github.com/desertthunder/rmx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	configPath := "config.toml"
	if p := os.Getenv("RMX_CONFIG"); p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, config.Log.ParsedLevel())

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		HTTPClient: &http.Client{Timeout: config.Catalog.Timeout()},
	}

	backend, err := repositories.OpenBackend(config.Storage)
	if err != nil {
		logger.Warn("storage unavailable, commands needing it will fail", "error", err)
	} else {
		defer backend.Close()

		ids := identity.New(ctx, backend.Store, logger)
		opts.Identity = ids
		opts.Favorites = favorites.New(backend.Store, ids, logger)
	}

	opts.Catalog = services.NewRickAndMortyService(services.CatalogOpts{
		BaseURL:    config.Catalog.BaseURL,
		HTTPClient: opts.HTTPClient,
		Timeout:    config.Catalog.Timeout(),
		RateLimit:  config.Catalog.RateLimit,
		UserAgent:  config.Catalog.UserAgent,
		Logger:     logger,
	})
	opts.API = services.NewAPIService(config.Catalog.BaseURL, opts.HTTPClient)

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "rmx",
		Usage:    "Browse the Rick and Morty catalog and keep favorites",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if backend != nil {
			backend.Close()
		}
		logger.Fatalf("application error: %v", err)
	}
}
