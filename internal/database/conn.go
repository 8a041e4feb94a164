package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/e2e-harness/internal/ciutil"
	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/platform/mysql"
	"github.com/phrazzld/e2e-harness/internal/platform/postgres"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlexec"
)

// ErrUnsupportedDriver is returned for a driver name with no dialect.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Conn is a connection handle. The underlying pool never holds more than one
// open physical connection. If that connection is discarded by the driver,
// for example after a statement was abandoned on timeout, database/sql dials
// a replacement on the next statement.
type Conn struct {
	DB      *sql.DB
	Dialect sqlexec.Dialect

	cfg       config.DatabaseConfig
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// DialectFor returns the dialect registered for a configured driver name.
func DialectFor(driver string) (sqlexec.Dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return mysql.Dialect{}, nil
	case config.DriverPostgres:
		return postgres.Dialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// DSN returns the driver-specific data source name for cfg.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.DSN(cfg), nil
	case config.DriverPostgres:
		return postgres.DSN(cfg), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Open creates the handle for cfg and verifies it with a ping bounded by
// cfg.ConnectTimeout. Unreachable servers and rejected credentials fail here.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Conn, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("opening database connection",
		slog.String("driver", cfg.Driver),
		slog.String("dsn", ciutil.MaskSensitiveValue(dsn)))

	return OpenDB(ctx, db, dialect, cfg, logger)
}

// OpenDB wraps an already opened *sql.DB, applies the single-connection pool
// limits and pings it. db is closed when the ping fails.
func OpenDB(
	ctx context.Context,
	db *sql.DB,
	dialect sqlexec.Dialect,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*Conn, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if dialect == nil {
		return nil, errors.New("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	c := &Conn{
		DB:      db,
		Dialect: dialect,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "database"), slog.String("target", cfg.String())),
	}

	if err := c.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	c.logger.Info("database connection established")
	return c, nil
}

// Ping verifies the connection is usable. The check is bounded by the
// configured connect timeout when one is set.
func (c *Conn) Ping(ctx context.Context) error {
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}

	if err := c.DB.PingContext(ctx); err != nil {
		if se := c.Dialect.MapError("connect", err); se != nil {
			return fmt.Errorf("failed to ping database %s: %w", c.cfg.String(), se)
		}
		return fmt.Errorf("failed to ping database %s: %w", c.cfg.String(), err)
	}
	return nil
}

// Executor returns a statement executor over the handle, bounded by the
// configured statement timeout.
func (c *Conn) Executor(opts ...sqlexec.Option) *sqlexec.Executor {
	base := []sqlexec.Option{
		sqlexec.WithStatementTimeout(c.cfg.StatementTimeout),
		sqlexec.WithLogger(c.logger),
	}
	return sqlexec.New(c.DB, c.Dialect, append(base, opts...)...)
}

// Config returns the configuration the handle was opened with.
func (c *Conn) Config() config.DatabaseConfig {
	return c.cfg
}

// Close releases the handle. Only the first call closes the pool; later
// calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.DB.Close()
		if c.closeErr != nil {
			c.logger.Error("failed to close database connection", slog.String("error", c.closeErr.Error()))
			return
		}
		c.logger.Info("database connection closed")
	})
	return c.closeErr
}
