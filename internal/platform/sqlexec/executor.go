package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/e2e-harness/internal/platform/logger"
	"github.com/phrazzld/e2e-harness/internal/redact"
	"github.com/phrazzld/e2e-harness/internal/store"
	"github.com/spf13/cast"
)

// Row is one result row keyed by column name.
type Row = store.Row

// Result describes the outcome of a mutating statement.
type Result struct {
	RowsAffected int64
	// LastInsertID is zero when the store does not report generated keys
	// through the driver result.
	LastInsertID int64
}

// Option configures an Executor.
type Option func(*Executor)

// WithStatementTimeout bounds every statement by d. Zero disables the bound.
func WithStatementTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// StatementHook is called after every statement that reached the store.
// code is empty on success and the StoreError code on failure.
type StatementHook func(operation, code string, d time.Duration)

// WithStatementHook registers hook to observe statements.
func WithStatementHook(hook StatementHook) Option {
	return func(e *Executor) {
		e.hook = hook
	}
}

// Executor sends statements to the store over a DBTX and returns rows. It
// holds no state between statements and is safe for concurrent use to the
// extent the underlying DBTX is.
type Executor struct {
	db      store.DBTX
	dialect Dialect
	timeout time.Duration
	logger  *slog.Logger
	hook    StatementHook
}

// New creates an Executor over db. A nil dialect selects QuestionDialect.
func New(db store.DBTX, dialect Dialect, opts ...Option) *Executor {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		dialect = QuestionDialect{}
	}

	e := &Executor{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "sqlexec"), slog.String("dialect", dialect.Name()))

	return e
}

// WithDB returns a copy of e that runs statements over db, typically a
// *sql.Tx. Dialect, timeout and logger are shared.
func (e *Executor) WithDB(db store.DBTX) *Executor {
	if db == nil {
		panic("db cannot be nil")
	}
	c := *e
	c.db = db
	return &c
}

// Dialect returns the dialect statements are rebound with.
func (e *Executor) Dialect() Dialect {
	return e.dialect
}

// Query runs statement with params bound positionally and returns every
// result row in the order the store produced them. A statement that yields
// no rows returns an empty, non-nil slice.
func (e *Executor) Query(ctx context.Context, statement string, params ...any) ([]Row, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	native, err := e.prepare("query", statement, params)
	if err != nil {
		return nil, err
	}

	stmtCtx, cancel := e.statementContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := e.db.QueryContext(stmtCtx, native, params...)
	if err != nil {
		return nil, e.fail(ctx, stmtCtx, log, "query", statement, start, err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, e.fail(ctx, stmtCtx, log, "query", statement, start, err)
	}

	e.observe("query", "", start)
	log.Debug("statement executed",
		slog.String("operation", "query"),
		slog.String("statement", statement),
		slog.Int("params", len(params)),
		slog.Int("rows", len(result)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// Exec runs a statement that returns no rows.
func (e *Executor) Exec(ctx context.Context, statement string, params ...any) (Result, error) {
	res, err := e.exec(ctx, "exec", statement, params)
	if err != nil {
		return Result{}, err
	}

	var out Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

// Insert runs an insert statement and returns the key the store generated for
// the new row.
func (e *Executor) Insert(ctx context.Context, statement string, params ...any) (int64, error) {
	if returning, ok := e.dialect.ReturningInsert(statement); ok {
		rows, err := e.Query(ctx, returning, params...)
		if err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			return 0, store.NewStoreError("insert", store.CodeUnknown, "insert returned no generated key", nil, nil)
		}
		id, err := cast.ToInt64E(rows[0]["id"])
		if err != nil {
			return 0, fmt.Errorf("failed to read generated key: %w", err)
		}
		return id, nil
	}

	res, err := e.exec(ctx, "insert", statement, params)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, store.NewStoreError("insert", store.CodeUnknown, "driver did not report a generated key", nil, err)
	}
	return id, nil
}

func (e *Executor) exec(ctx context.Context, operation, statement string, params []any) (sql.Result, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	native, err := e.prepare(operation, statement, params)
	if err != nil {
		return nil, err
	}

	stmtCtx, cancel := e.statementContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := e.db.ExecContext(stmtCtx, native, params...)
	if err != nil {
		return nil, e.fail(ctx, stmtCtx, log, operation, statement, start, err)
	}

	e.observe(operation, "", start)
	log.Debug("statement executed",
		slog.String("operation", operation),
		slog.String("statement", statement),
		slog.Int("params", len(params)),
		slog.Duration("duration", time.Since(start)))

	return res, nil
}

// prepare checks the bind count and rebinds statement for the dialect.
func (e *Executor) prepare(operation, statement string, params []any) (string, error) {
	if n := e.dialect.Syntax().CountPlaceholders(statement); n != len(params) {
		return "", store.NewStoreError(
			operation,
			store.CodeBindCountMismatch,
			fmt.Sprintf("statement has %d placeholders but %d parameters were bound", n, len(params)),
			store.ErrBindCount,
			nil,
		)
	}
	return e.dialect.Rebind(statement), nil
}

func (e *Executor) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

// fail converts err into a *store.StoreError and logs it. The statement
// timeout is told apart from the caller's own deadline by checking whether
// the parent context is still live.
func (e *Executor) fail(
	parent, stmtCtx context.Context,
	log *slog.Logger,
	operation, statement string,
	start time.Time,
	err error,
) error {
	var se *store.StoreError
	switch {
	case parent.Err() == nil && errors.Is(stmtCtx.Err(), context.DeadlineExceeded):
		cause := err
		if !errors.Is(err, context.DeadlineExceeded) {
			cause = errors.Join(context.DeadlineExceeded, err)
		}
		se = store.NewStoreError(
			operation,
			store.CodeStatementTimeout,
			fmt.Sprintf("statement exceeded %s", e.timeout),
			store.ErrStatementTimeout,
			cause,
		)
	default:
		se = e.dialect.MapError(operation, err)
		if se == nil {
			se = store.NewStoreError(operation, store.CodeUnknown, err.Error(), nil, err)
		}
	}

	e.observe(operation, se.Code, start)
	log.Error("statement failed",
		slog.String("operation", operation),
		slog.String("statement", statement),
		slog.String("code", se.Code),
		slog.Int("number", se.Number),
		slog.String("error", redact.String(se.Message)))

	return se
}

func (e *Executor) observe(operation, code string, start time.Time) {
	if e.hook != nil {
		e.hook(operation, code, time.Since(start))
	}
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
