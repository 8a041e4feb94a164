// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional .env file. It provides type-safe
// access to the database connection parameters and logging settings shared by
// the test harness, the fixtures and the command-line tools.
//
// Configuration is resolved once, at process start, and treated as immutable
// afterwards.
package config
