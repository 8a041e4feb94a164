package testdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose records applied versions in.
const MigrationTableName = "schema_migrations"

// TestTimeout bounds individual setup steps.
const TestTimeout = 30 * time.Second

//go:embed migrations
var migrations embed.FS

// goose keeps its settings in package state.
var gooseMu sync.Mutex

// MigrationsDir returns the embedded directory holding the migrations for
// driver.
func MigrationsDir(driver string) (string, error) {
	switch driver {
	case config.DriverMySQL, config.DriverPostgres:
		return "migrations/" + driver, nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrate applies every pending users migration for driver to db.
func Migrate(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	dir, err := MigrationsDir(driver)
	if err != nil {
		return err
	}
	if logger == nil {
		logger = slog.Default()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{logger: logger.With(slog.String("component", "migrations"))})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", driver, err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf is only reached from goose's command-line paths, which Migrate does
// not use.
func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
