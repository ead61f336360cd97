package database

import (
	"errors"
	"fmt"

	"github.com/alexivanou/geocity-weather/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

// NewMigrator builds a migrate instance over the migrations below root
// (which holds sqlite/ and postgres/ subdirectories)
func NewMigrator(db *sqlx.DB, cfg config.DBConfig, root string) (*migrate.Migrate, error) {
	sourcePath := cfg.MigrationsPath(root)

	if !cfg.IsMemory() {
		m, err := migrate.New(sourcePath, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("could not create migrate instance: %w", err)
		}
		return m, nil
	}

	// In-memory SQLite only exists on this connection pool, so migrate
	// through the open handle instead of a DSN
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourcePath, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration
func Migrate(db *sqlx.DB, cfg config.DBConfig, root string) error {
	m, err := NewMigrator(db, cfg, root)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
