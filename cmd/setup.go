package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
//
// With --status it lists each migration, and with --rollback it undoes the latest one.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.cfg()
	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	switch {
	case cmd.Bool("status"):
		statuses, err := shared.Migrations(db)
		if err != nil {
			return err
		}
		r.writePlainHeader("Migrations: " + config.Database.Path)
		for _, s := range statuses {
			mark := " "
			if s.Applied {
				mark = "✓"
			}
			r.writePlain("[%s] %04d %s\n", mark, s.Version, s.Name)
		}
		return nil
	case cmd.Bool("rollback"):
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.logger.Info("rolled back latest migration")
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.youtube.api_key (or %s)\n", shared.YouTubeAPIKeyEnv)
	r.writePlain("2. Set credentials.google.client_id and client_secret to sign in with Google\n")
	r.writePlain("3. Run 'echoplay setup database'\n")
	return nil
}
