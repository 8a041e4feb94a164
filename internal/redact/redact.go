// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Database drivers echo DSNs, user names and client
// addresses in their error messages; fixtures run every logged error through
// this package first.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedAccountPlaceholder    = "[REDACTED_ACCOUNT]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; earlier rules see the unmodified input.
var rules = []rule{
	// URL-form connection strings: postgres://user:pass@
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mariadb|db|database)://[^@\s]+@`), RedactedCredentialPlaceholder},
	// go-sql-driver DSNs: user:pass@tcp(
	{regexp.MustCompile(`[^\s:@/]+:[^\s@]*@(tcp|unix)\(`), RedactedCredentialPlaceholder + "$1("},
	// MySQL account references: 'user'@'host'
	{regexp.MustCompile(`'[^']*'@'[^']*'`), RedactedAccountPlaceholder},
	// password=..., pwd: ...
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	// api keys, tokens, secrets
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
