// Package database opens the relational store and keeps its schema current.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-seat-api/pkg/config"
)

// Open connects to the configured driver.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg)
	case config.DriverSQLite, "":
		return NewSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Dialect maps an sqlx driver name onto the migration set it needs.
func Dialect(db *sqlx.DB) string {
	if db == nil {
		return ""
	}
	switch db.DriverName() {
	case "postgres", "pgx":
		return config.DriverPostgres
	default:
		return config.DriverSQLite
	}
}
