// internal/repository/postgres/migrate.go
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// newMigrationProvider builds a goose provider over the embedded migrations.
// A Postgres advisory lock keeps concurrently starting instances from applying
// the same version twice.
func newMigrationProvider(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, fmt.Errorf("failed to create migration lock: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys,
		goose.WithSessionLocker(locker),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending embedded migration. Each version runs in its
// own transaction and is recorded in goose's version table.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	provider, err := newMigrationProvider(db.DB)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(results) == 0 {
		logger.Info("Database schema is up to date")
		return nil
	}
	for _, res := range results {
		logger.Info("Applied migration",
			"version", res.Source.Version,
			"file", path.Base(res.Source.Path),
			"duration", res.Duration)
	}
	return nil
}
