// Package redact provides utilities for redacting sensitive information from
// strings before they are logged. Error text can carry connection URIs with
// embedded credentials, host addresses, filesystem paths, or raw query
// filters; none of those belong in log output.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
	RedactedFilterPlaceholder     = "[REDACTED_FILTER]"
)

// Precompiled regex patterns
var (
	// Connection strings with inline credentials, e.g. mongodb://user:pw@host
	connURIRegex = regexp.MustCompile(`(?i)(mongodb(\+srv)?|postgres|mysql|redis|amqp)://[^@\s]+@`)

	// Password-ish key/value fragments
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)

	// host:port pairs
	hostPortRegex = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`)

	// Filesystem paths
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// BSON/JSON filter fragments echoed back by the driver
	filterRegex = regexp.MustCompile(`\{\s*"?_?id"?\s*:[^}]*\}`)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{connURIRegex, RedactedCredentialPlaceholder + "@"},
		{passwordRegex, RedactedCredentialPlaceholder},
		{filterRegex, RedactedFilterPlaceholder},
		{hostPortRegex, RedactedHostPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
	}
)

// String redacts sensitive fragments from an arbitrary string.
func String(s string) string {
	for _, p := range patternPlaceholders {
		s = p.pattern.ReplaceAllString(s, p.placeholder)
	}
	return s
}

// Error redacts sensitive fragments from an error's message.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
