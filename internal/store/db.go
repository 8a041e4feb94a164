package store

import (
	"context"
	"database/sql"
)

// DBTX is the statement surface shared by *sql.DB, *sql.Conn and *sql.Tx.
// Code written against it runs unchanged inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
