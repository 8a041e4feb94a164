// Package database opens the connection handle shared by every test in a
// worker. A Conn wraps a *sql.DB capped at one open physical connection
// together with the dialect the executor needs to talk to it.
package database
