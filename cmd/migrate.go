package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  withDB(postgres.MigrateUp),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE:  withDB(postgres.MigrateDown),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	RunE:  withDB(postgres.MigrateStatus),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

// withDB opens the configured database, runs fn and closes the pool.
// Only DATABASE_URL is needed; the rest of the configuration is not validated.
func withDB(fn func(context.Context, *gorm.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, log, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		if cfg.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required")
		}

		db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: 1}, log)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("gorm sql db: %w", err)
		}
		defer sqlDB.Close()

		if err := fn(ctx, db); err != nil {
			return err
		}
		log.Info().Str("command", cmd.Name()).Msg("migrate: ok")
		return nil
	}
}
