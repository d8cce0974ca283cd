package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/brinda-08/Quiz/internal/database/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func (db *DB) openSQL() (*sql.DB, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return stdlib.OpenDBFromPool(db.Pool), nil
}

// Migrate applies all pending embedded migrations.
func (db *DB) Migrate(ctx context.Context) error {
	sqlDB, err := db.openSQL()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	db.logger.Info("database schema up to date", slog.Int64("version", version))
	return nil
}

// MigrationStatus prints the state of every embedded migration through
// goose's logger.
func (db *DB) MigrationStatus(ctx context.Context) error {
	sqlDB, err := db.openSQL()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := goose.StatusContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}
