// Package metrics exposes Prometheus collectors for worker-scoped fixtures and
// the statements issued through them. Collectors are registered on a caller
// supplied registry so tests and tools never touch the global default.
package metrics
