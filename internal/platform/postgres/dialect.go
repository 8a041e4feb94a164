package postgres

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlexec"
	"github.com/phrazzld/e2e-harness/internal/store"
)

// DriverName is the name the pgx stdlib driver registers with database/sql.
const DriverName = "pgx"

var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

// Dialect implements sqlexec.Dialect for PostgreSQL.
type Dialect struct{}

var _ sqlexec.Dialect = Dialect{}

// Name implements sqlexec.Dialect.
func (Dialect) Name() string { return config.DriverPostgres }

// DriverName implements sqlexec.Dialect.
func (Dialect) DriverName() string { return DriverName }

// Syntax reports standard SQL lexical rules.
func (Dialect) Syntax() sqlexec.Syntax { return sqlexec.Syntax{} }

// Rebind converts "?" placeholders to "$n".
func (Dialect) Rebind(statement string) string { return sqlexec.RebindDollar(statement) }

// ReturningInsert appends "RETURNING id" to insert statements that do not
// already carry a RETURNING clause.
func (Dialect) ReturningInsert(statement string) (string, bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(statement), ";")
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return statement, false
	}
	if returningClause.MatchString(trimmed) {
		return trimmed, true
	}
	return trimmed + " RETURNING id", true
}

// MapError implements sqlexec.Dialect.
func (Dialect) MapError(operation string, err error) *store.StoreError {
	return MapError(operation, err)
}

// DSN builds a postgres:// connection URL for cfg. TLS is disabled; the
// harness targets local and containerised servers.
func DSN(cfg config.DatabaseConfig) string {
	q := url.Values{}
	q.Set("sslmode", "disable")
	if cfg.ConnectTimeout > 0 {
		secs := int(cfg.ConnectTimeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Address(),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
