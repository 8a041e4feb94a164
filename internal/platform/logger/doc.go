// Package logger provides structured logging functionality for the harness
// using Go's standard library log/slog package.
//
// Setup configures the process-wide default logger from config.LogConfig.
// Loggers travel through contexts with WithLogger and FromContext, so code
// deep in the data-access layer logs with the fields attached by the fixture
// that owns the call (resource, worker).
package logger
