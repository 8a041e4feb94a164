// Package ciutil provides utilities for CI and environment-specific functionality.
//
// It centralizes CI provider detection, worker identity resolution, consistent
// access to environment variables with legacy fallbacks, and masking of
// sensitive values (DSNs, passwords) before they reach a log line.
package ciutil
