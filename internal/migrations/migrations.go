// Package migrations owns the session-store schema.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

// Run applies all pending migrations against db and returns the resulting
// schema version. goose output goes to logger at debug level; a nil logger
// silences it.
func Run(db *sql.DB, logger *slog.Logger) (int64, error) {
	goose.SetBaseFS(fs)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return 0, fmt.Errorf("running migrations: %w", err)
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// gooseLogger adapts slog to goose.Logger.
type gooseLogger struct{ l *slog.Logger }

func (g gooseLogger) Printf(format string, v ...any) {
	if g.l != nil {
		g.l.Debug(fmt.Sprintf(format, v...), "component", "migrations")
	}
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	if g.l != nil {
		g.l.Error(fmt.Sprintf(format, v...), "component", "migrations")
	}
	os.Exit(1)
}
