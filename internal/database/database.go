package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexivanou/geocity-weather/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// SQLiteDriver is the go-sqlite3 driver with the catalog's SQL functions
// registered on every connection
const SQLiteDriver = "sqlite3_catalog"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's LOWER only folds ASCII
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}

// Connect opens the city catalog database described by cfg. SQLite
// connections enforce foreign keys through the DSN.
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	driverName := "pgx"
	if cfg.IsMemory() {
		driverName = SQLiteDriver
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
