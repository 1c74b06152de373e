package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationDir = "migrations"

func prepareGoose() error {
	goose.SetBaseFS(migrationFS)
	return goose.SetDialect("postgres")
}

// MigrateUp applies every pending embedded migration.
func MigrateUp(ctx context.Context, db *gorm.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql db: %w", err)
	}
	return goose.UpContext(ctx, sqlDB, migrationDir)
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *gorm.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql db: %w", err)
	}
	return goose.DownContext(ctx, sqlDB, migrationDir)
}

// MigrateStatus logs the applied state of every migration.
func MigrateStatus(ctx context.Context, db *gorm.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql db: %w", err)
	}
	return goose.StatusContext(ctx, sqlDB, migrationDir)
}
