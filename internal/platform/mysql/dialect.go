package mysql

import (
	driver "github.com/go-sql-driver/mysql"
	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlexec"
	"github.com/phrazzld/e2e-harness/internal/store"
)

// DriverName is the name go-sql-driver/mysql registers with database/sql.
const DriverName = "mysql"

// Dialect implements sqlexec.Dialect for MySQL.
type Dialect struct{}

var _ sqlexec.Dialect = Dialect{}

// Name implements sqlexec.Dialect.
func (Dialect) Name() string { return config.DriverMySQL }

// DriverName implements sqlexec.Dialect.
func (Dialect) DriverName() string { return DriverName }

// Syntax reports MySQL's lexical rules: backslash escapes in literals and
// "#" comments.
func (Dialect) Syntax() sqlexec.Syntax { return sqlexec.MySQLSyntax }

// Rebind returns statement unchanged; MySQL accepts "?" natively.
func (Dialect) Rebind(statement string) string { return statement }

// ReturningInsert reports false: MySQL returns AUTO_INCREMENT keys through
// LastInsertId.
func (Dialect) ReturningInsert(statement string) (string, bool) { return statement, false }

// MapError implements sqlexec.Dialect.
func (Dialect) MapError(operation string, err error) *store.StoreError {
	return MapError(operation, err)
}

// DSN builds a go-sql-driver DSN for cfg. The connect timeout bounds dialing
// only; statement timeouts are applied per statement by the executor.
func DSN(cfg config.DatabaseConfig) string {
	c := driver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = cfg.Address()
	c.DBName = cfg.Name
	c.Timeout = cfg.ConnectTimeout
	c.ParseTime = true
	return c.FormatDSN()
}
