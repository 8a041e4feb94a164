// Package sqlstore implements the store interfaces on top of the statement
// executor. It works against any store the executor has a dialect for.
package sqlstore
