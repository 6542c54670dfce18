package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/db"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
	"gorm.io/gorm"
)

const MigrationTable = "schema_migrations"

// Migrator runs the embedded SQL migrations for the dialect behind db.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

func NewMigrator(gdb *gorm.DB, logger *slog.Logger) (*Migrator, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	dir, dialect := "sqlite", goosedb.DialectSQLite3
	if gdb.Dialector.Name() == "postgres" {
		dir, dialect = "postgres", goosedb.DialectPostgres
	}

	fsys, err := db.Migrations(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s migrations: %w", dir, err)
	}

	store, err := goosedb.NewStore(dialect, MigrationTable)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}

	provider, err := goose.NewProvider("", sqlDB, fsys, goose.WithStore(store))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{provider: provider, logger: logger}, nil
}

// Up applies every pending migration and returns the versions applied.
func (m *Migrator) Up(ctx context.Context) ([]int64, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	applied := make([]int64, 0, len(results))
	for _, r := range results {
		m.logger.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// Down rolls back the latest applied migration.
func (m *Migrator) Down(ctx context.Context) (int64, error) {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose down: %w", err)
	}

	m.logger.Info("migration rolled back", "version", result.Source.Version, "path", result.Source.Path)
	return result.Source.Version, nil
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return m.provider.GetDBVersion(ctx)
}
