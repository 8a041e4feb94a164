// Package mysql provides the MySQL dialect for the statement executor: DSN
// construction for github.com/go-sql-driver/mysql and translation of
// *mysql.MySQLError values into store errors that keep the server's error
// number and symbolic code.
package mysql
