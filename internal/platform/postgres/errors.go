package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/e2e-harness/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	undefinedTableCode  = "42P01"
	undefinedColumnCode = "42703"
	syntaxErrorCode     = "42601"
	queryCanceledCode   = "57014"
)

var kinds = map[string]error{
	uniqueViolationCode:     store.ErrDuplicate,
	foreignKeyViolationCode: store.ErrConstraint,
	checkViolationCode:      store.ErrConstraint,
	notNullViolationCode:    store.ErrConstraint,
	undefinedTableCode:      store.ErrMissingRelation,
	undefinedColumnCode:     store.ErrMissingRelation,
	syntaxErrorCode:         store.ErrSyntax,
}

// MapError translates a *pgconn.PgError into a *store.StoreError whose Code is
// the SQLSTATE. PostgreSQL has no numeric codes, so Number stays zero. It
// returns nil when err is not a server error.
func MapError(operation string, err error) *store.StoreError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	kind := kinds[pgErr.Code]
	if pgErr.Code == queryCanceledCode {
		kind = store.ErrStatementTimeout
	}

	return store.NewStoreError(operation, pgErr.Code, pgErr.Message, kind, err)
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsUndefinedTable reports whether err says the referenced table does not exist.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
