package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/rmx/internal/repositories"
	"github.com/desertthunder/rmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// configFile returns --config, or the path main resolved (RMX_CONFIG) when the flag is not set.
func (r *Runner) configFile(cmd *cli.Command) string {
	if !cmd.IsSet("config") && r.configPath != "" {
		return r.configPath
	}
	return cmd.String("config")
}

// SetupConfig writes the embedded example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configFile(cmd)

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("✓ Config written to %s\n", configPath)
}

// SetupDatabase initializes the database and runs migrations, then lists the stored documents.
//
// With --rollback the most recent migration is rolled back instead.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configFile(cmd)

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	if config.Storage.Backend == "memory" {
		r.logger.Warn("memory backend selected, nothing to initialize")
		return r.writePlain("Storage backend is memory; no database needed\n")
	}

	r.logger.Info("initializing database", "path", config.Storage.Path)

	db, err := shared.NewDatabase(config.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}

		version, applied, err := shared.CurrentVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		return r.writePlain("✓ Rolled back %s (schema version %d, %d migrations applied)\n", config.Storage.Path, version, applied)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, applied, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	keys, err := repositories.NewSQLiteStore(db).Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored documents: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Storage.Path)
	if err := r.writePlain("✓ Database ready at %s (schema version %d, %d migrations applied)\n", config.Storage.Path, version, applied); err != nil {
		return err
	}
	if len(keys) == 0 {
		return r.writePlain("No stored documents\n")
	}
	if err := r.writePlain("Stored documents:\n"); err != nil {
		return err
	}
	for _, key := range keys {
		if err := r.writePlain("  %s\n", key); err != nil {
			return err
		}
	}
	return nil
}
