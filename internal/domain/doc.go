// Package domain contains the records that database-backed tests read and
// write, independent of the store they are persisted in.
package domain
