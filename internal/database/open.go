// Package database opens the ledger database and applies migrations.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/faktbot/faktbot/pkg/config"
)

func init() {
	// modernc registers itself as "sqlite"; sqlx only knows "sqlite3" out of
	// the box.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}

	driverName := driver
	if driver == "postgres" {
		driverName = "postgres"
	} else {
		driverName = "sqlite"
	}

	db, err := sqlx.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database (%s): %w", driver, err)
	}

	if driverName == "sqlite" {
		// A single writer keeps ledger inserts serialized at the driver level.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database (%s): %w", driver, err)
	}

	return db, nil
}
