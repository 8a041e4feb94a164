package harness

import (
	"context"
	"log/slog"

	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/database"
	"github.com/phrazzld/e2e-harness/internal/fixture"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlexec"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlstore"
	"github.com/phrazzld/e2e-harness/internal/store"
)

// ConnResource is the name the connection is registered under in a worker.
const ConnResource = "db"

// OpenFunc opens a connection handle for cfg.
type OpenFunc func(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database.Conn, error)

// PrepareFunc runs against a freshly opened handle before it is handed out.
type PrepareFunc func(ctx context.Context, conn *database.Conn) error

// DB is the database fixture set of one worker.
type DB struct {
	// Conn is acquired at most once per worker and released when the worker
	// closes.
	Conn *fixture.Scoped[*database.Conn]
	// Users gives every test its own façade over the shared Conn.
	Users *fixture.Binding[*database.Conn, store.UserStore]
}

type options struct {
	logger  *slog.Logger
	open    OpenFunc
	prepare PrepareFunc
	hook    sqlexec.StatementHook
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used by the connection and the façade.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOpener replaces database.Open.
func WithOpener(open OpenFunc) Option {
	return func(o *options) {
		if open != nil {
			o.open = open
		}
	}
}

// WithPrepare registers a step, such as applying migrations, that runs once
// after the connection opens. A failing step fails the acquisition.
func WithPrepare(prepare PrepareFunc) Option {
	return func(o *options) {
		o.prepare = prepare
	}
}

// WithStatementHook observes every statement issued through the façade.
func WithStatementHook(hook sqlexec.StatementHook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// New registers the connection fixture for cfg with w and binds the user
// façade to it. Nothing is opened until a test first asks for a value.
func New(w *fixture.Worker, cfg config.DatabaseConfig, opts ...Option) *DB {
	o := options{
		logger: slog.Default(),
		open:   database.Open,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With(slog.String("worker", w.ID()))

	conn := fixture.Provide(w, ConnResource,
		func(ctx context.Context) (*database.Conn, error) {
			c, err := o.open(ctx, cfg, log)
			if err != nil {
				return nil, err
			}
			if o.prepare != nil {
				if err := o.prepare(ctx, c); err != nil {
					_ = c.Close()
					return nil, err
				}
			}
			return c, nil
		},
		func(_ context.Context, c *database.Conn) error {
			return c.Close()
		},
	)

	users := fixture.Bind(conn, func(c *database.Conn) store.UserStore {
		return sqlstore.NewUserStore(c.Executor(sqlexec.WithStatementHook(o.hook)), log)
	})

	return &DB{Conn: conn, Users: users}
}
