// Package testdb prepares relational stores for this repository's own
// integration tests: it applies the embedded users schema with goose, resets
// and seeds the relation, and, under the integration build tag, provisions a
// throwaway server with testcontainers.
//
// Nothing here is needed by code under test. The harness only assumes that a
// users relation exists.
package testdb
