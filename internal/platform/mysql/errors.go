package mysql

import (
	"errors"

	driver "github.com/go-sql-driver/mysql"
	"github.com/phrazzld/e2e-harness/internal/store"
)

// MySQL server error numbers
const (
	errAccessDenied     = 1045
	errBadDB            = 1049
	errBadNull          = 1048
	errBadField         = 1054
	errDupEntry         = 1062
	errParse            = 1064
	errNoSuchTable      = 1146
	errRowIsReferenced2 = 1451
	errNoReferencedRow2 = 1452
	errCheckConstraint  = 3819
)

type codeInfo struct {
	symbol string
	kind   error
}

// codes holds the symbolic name MySQL documents for each number.
var codes = map[uint16]codeInfo{
	errAccessDenied:     {"ER_ACCESS_DENIED_ERROR", nil},
	errBadDB:            {"ER_BAD_DB_ERROR", nil},
	errBadNull:          {"ER_BAD_NULL_ERROR", store.ErrConstraint},
	errBadField:         {"ER_BAD_FIELD_ERROR", store.ErrMissingRelation},
	errDupEntry:         {"ER_DUP_ENTRY", store.ErrDuplicate},
	errParse:            {"ER_PARSE_ERROR", store.ErrSyntax},
	errNoSuchTable:      {"ER_NO_SUCH_TABLE", store.ErrMissingRelation},
	errRowIsReferenced2: {"ER_ROW_IS_REFERENCED_2", store.ErrConstraint},
	errNoReferencedRow2: {"ER_NO_REFERENCED_ROW_2", store.ErrConstraint},
	errCheckConstraint:  {"ER_CHECK_CONSTRAINT_VIOLATED", store.ErrConstraint},
}

// MapError translates a *mysql.MySQLError into a *store.StoreError. Numbers
// without a known symbol keep the server's SQLSTATE as their code. It returns
// nil when err is not a server error.
func MapError(operation string, err error) *store.StoreError {
	var myErr *driver.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}

	info, ok := codes[myErr.Number]
	if !ok {
		info.symbol = string(myErr.SQLState[:])
		if myErr.SQLState == [5]byte{} {
			info.symbol = store.CodeUnknown
		}
	}

	se := store.NewStoreError(operation, info.symbol, myErr.Message, info.kind, err)
	se.Number = int(myErr.Number)
	return se
}

// IsDuplicateEntry reports whether err is a MySQL unique key violation.
func IsDuplicateEntry(err error) bool {
	var myErr *driver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDupEntry
}
