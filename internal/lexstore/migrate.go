package lexstore

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema up to date.
func (s *Store) Migrate() error {
	if s.db == nil {
		return ErrNotOpen
	}
	return migrate(s.db, s.log)
}

// Version returns the schema version recorded in the database.
func (s *Store) Version() (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	if err := configureGoose(s.log); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.db)
}

func migrate(db *sql.DB, log *slog.Logger) error {
	if err := configureGoose(log); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func configureGoose(log *slog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	return nil
}

// gooseLogger routes goose's progress output to slog so stdout stays clean.
type gooseLogger struct{ log *slog.Logger }

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(fmt.Sprintf(format, v...), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(fmt.Sprintf(format, v...), "component", "goose")
}
