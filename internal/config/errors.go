package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports connection parameters that could not be resolved or
// failed validation. It is fatal: callers are expected to abort before any
// test that depends on the configuration runs.
type ConfigError struct {
	Field string // Dotted config key (e.g. "database.port"), empty when not field specific
	Err   error  // Underlying cause
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %v", ErrInvalidConfig, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrInvalidConfig, e.Field, e.Err)
}

// Unwrap returns the cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidConfig as a match so callers can use errors.Is.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
