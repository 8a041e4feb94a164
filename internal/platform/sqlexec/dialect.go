package sqlexec

import (
	"github.com/phrazzld/e2e-harness/internal/store"
)

// Dialect adapts the executor to one relational store.
type Dialect interface {
	// Name is the configured driver name, e.g. "mysql".
	Name() string

	// DriverName is the name the database/sql driver is registered under.
	DriverName() string

	// Syntax reports the lexical rules used to find placeholders in
	// statements written for this store.
	Syntax() Syntax

	// Rebind rewrites a statement written with "?" placeholders into the
	// store's native placeholder syntax.
	Rebind(statement string) string

	// ReturningInsert rewrites an insert so that it yields the generated id as
	// a result row. It returns false when the store reports generated keys
	// through sql.Result.LastInsertId instead.
	ReturningInsert(statement string) (string, bool)

	// MapError translates a driver error into a *store.StoreError. It returns
	// nil when err is not a native store error.
	MapError(operation string, err error) *store.StoreError
}

// QuestionDialect is a Dialect for stores that accept "?" placeholders and
// report LastInsertId. It maps no native errors and is mainly useful with
// sqlmock.
type QuestionDialect struct{}

var _ Dialect = QuestionDialect{}

func (QuestionDialect) Name() string { return "generic" }
func (QuestionDialect) DriverName() string { return "sqlmock" }
func (QuestionDialect) Syntax() Syntax { return Syntax{} }
func (QuestionDialect) Rebind(statement string) string { return statement }
func (QuestionDialect) ReturningInsert(statement string) (string, bool) { return statement, false }
func (QuestionDialect) MapError(string, error) *store.StoreError { return nil }
