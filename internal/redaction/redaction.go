// Package redaction removes credentials from command text before it is
// written to audit logs. Commands routinely embed secrets (environment
// assignments, Authorization headers, URL userinfo); the risk decision
// must be auditable without persisting them.
package redaction

import (
	"regexp"
	"strings"
)

// DefaultPlaceholder replaces redacted values in log output.
const DefaultPlaceholder = "[REDACTED]"

// sensitiveAssignmentKeys match environment-style KEY=value assignments
// whose values must never be logged. Matching is on the key name only;
// the value is replaced wholesale.
var sensitiveAssignmentKeys = regexp.MustCompile(
	`(?i)\b([A-Z0-9_]*(?:PASSWORD|PASSWD|SECRET|TOKEN|API_?KEY|CREDENTIAL|AUTH)[A-Z0-9_]*)=(\S+)`)

// headerCredentials match an Authorization header value, including an
// optional Bearer/Basic scheme prefix, up to the next space or quote.
var headerCredentials = regexp.MustCompile(`(?i)(Authorization:\s*)(?:(?:Bearer|Basic)\s+)?[^\s"']+`)

// bearerCredentials match standalone "Bearer <token>" and "Basic <token>"
// values as they appear outside a recognizable header argument.
var bearerCredentials = regexp.MustCompile(`(?i)\b(Bearer|Basic)\s+[A-Za-z0-9+/=._-]+`)

// urlUserinfo matches user:password@ credentials embedded in URLs.
var urlUserinfo = regexp.MustCompile(`(://)[^/@\s]+:[^/@\s]+@`)

// Config controls how command text is redacted.
type Config struct {
	// Placeholder replaces redacted values. Empty selects DefaultPlaceholder.
	Placeholder string
}

// DefaultConfig returns the standard redaction configuration.
func DefaultConfig() *Config {
	return &Config{Placeholder: DefaultPlaceholder}
}

// RedactCommand returns the command text with embedded credentials
// replaced by the placeholder. The command structure (base command,
// operators, non-sensitive arguments) is preserved so audit entries stay
// useful for review.
func (c *Config) RedactCommand(text string) string {
	if text == "" {
		return text
	}
	placeholder := c.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	result := sensitiveAssignmentKeys.ReplaceAllString(text, "${1}="+placeholder)
	result = headerCredentials.ReplaceAllString(result, "${1}"+placeholder)
	result = bearerCredentials.ReplaceAllString(result, "${1} "+placeholder)
	result = urlUserinfo.ReplaceAllString(result, "${1}"+placeholder+"@")
	return result
}

// ContainsSensitive reports whether the text matches any credential
// pattern, without modifying it.
func (c *Config) ContainsSensitive(text string) bool {
	return strings.TrimSpace(text) != "" &&
		(sensitiveAssignmentKeys.MatchString(text) ||
			bearerCredentials.MatchString(text) ||
			headerCredentials.MatchString(text) ||
			urlUserinfo.MatchString(text))
}
