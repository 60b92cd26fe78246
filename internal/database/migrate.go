package database

import (
	"context"
	"embed"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sqlx.DB) error {
	return goose.UpContext(ctx, db.DB, "migrations")
}

// Migrate applies every pending schema migration.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUp(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Println("Database migrations applied")
	return nil
}
