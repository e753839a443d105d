package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/catalogdb/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := shared.ApplyLogLevel(r.logger, config.Log.Level); err != nil {
		return err
	}

	r.logger.Info("initializing database", "driver", config.Database.Driver, "dsn", config.Database.DSN)

	db, dialect, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db, dialect)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.DSN)
	return r.writePlain("%s Database ready (%d migrations applied)\n", r.palette.Mark(true), applied)
}

// Reset deletes every row from the catalog.
func (r *Runner) Reset(ctx context.Context, cmd *cli.Command) error {
	c, done, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := c.ClearDatabase(ctx); err != nil {
		return err
	}
	return r.writePlain("%s Catalog cleared\n", r.palette.Mark(true))
}

// Stats prints the number of rows per entity.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	c, done, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer done()

	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Catalog")
	for _, row := range []struct {
		label string
		count int
	}{
		{"Artists", stats.Artists},
		{"Genres", stats.Genres},
		{"Users", stats.Users},
		{"Albums", stats.Albums},
		{"Songs", stats.Songs},
		{"Ratings", stats.Ratings},
	} {
		if err := r.writePlain("%-8s %d\n", row.label, row.count); err != nil {
			return err
		}
	}
	return nil
}
