// Package database opens the libSQL database that backs hunt sessions.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// pragmas run on every open. journal_mode is skipped for Memory, where WAL
// does not apply.
var pragmas = []string{
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Open connects to the SQLite file at path through libSQL and applies the
// connection pragmas. Each pooled connection to Memory would see its own
// empty database, so that path gets a pool of exactly one.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	run := pragmas
	if path == Memory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		run = append([]string{"PRAGMA journal_mode=WAL"}, pragmas...)
	}

	if err := applyPragmas(ctx, db, run); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// applyPragmas goes through QueryContext because libSQL refuses Exec for
// statements that return rows, and some pragmas do.
func applyPragmas(ctx context.Context, db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		rows, err := db.QueryContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("executing %s: %w", stmt, err)
		}
		rows.Close()
	}
	return nil
}
