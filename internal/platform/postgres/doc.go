// Package postgres provides the PostgreSQL dialect for the statement
// executor. Connections go through the pgx stdlib driver; server errors arrive
// as *pgconn.PgError and are translated into store errors that keep the
// SQLSTATE code and the server message.
package postgres
