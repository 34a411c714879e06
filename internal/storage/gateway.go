// Package storage owns the SQLite connection and the row-to-entity
// translation for users and expenses.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Gateway owns the single database connection for the process lifetime.
// It is explicitly constructed and passed by reference; tests get their
// seam by opening a gateway against a temporary path. The connection is
// not synchronized for concurrent callers.
type Gateway struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed, verifies
// the connection, and runs schema migrations.
func Open(dbPath string) (*Gateway, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Gateway{db: db}, nil
}

// DB returns the live connection handle.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

// Close releases the connection.
func (g *Gateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

// isUniqueViolation recognizes a SQLite UNIQUE constraint rejection so
// repositories can turn it into a domain error instead of a generic
// engine failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
