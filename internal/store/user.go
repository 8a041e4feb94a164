package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/e2e-harness/internal/domain"
)

// UserStore is the data-access façade tests use to read and write the users
// relation.
type UserStore interface {
	// GetAll returns every user in the order the store returns them.
	// An empty relation yields an empty, non-nil slice.
	GetAll(ctx context.Context) ([]domain.User, error)

	// GetByID returns the user with the given id. When no row matches it
	// returns (nil, nil): absence is not an error.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Create inserts a user and returns the input merged with the id
	// generated by the store. The row is not read back. Empty names and
	// negative ages are sent as given; only a name longer than the column
	// is refused up front, with an error wrapping ErrInvalidEntity.
	Create(ctx context.Context, fields domain.UserFields) (*domain.User, error)

	// Delete removes the user with the given id. Deleting an id that does not
	// exist is a no-op.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of rows in the users relation.
	Count(ctx context.Context) (int64, error)

	// Query runs an arbitrary parameterized statement and returns the raw rows
	// without mapping them to users.
	Query(ctx context.Context, statement string, params ...any) ([]Row, error)

	// WithTx returns a UserStore that runs every statement inside tx.
	// The transaction is created and finished by the caller.
	WithTx(tx *sql.Tx) UserStore
}
