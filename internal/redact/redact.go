// Package redact strips sensitive material from strings before they reach
// log output or error responses: connection URLs with credentials, raw SQL
// fragments, and email addresses.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// SQL statements leaking through driver errors
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"$]+)?`,
	)

	// Email addresses (user PII)
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := dbConnRegex.ReplaceAllString(input, RedactedCredentialPlaceholder)
	result = sqlRegex.ReplaceAllString(result, RedactedSQLPlaceholder)
	result = emailRegex.ReplaceAllString(result, RedactedEmailPlaceholder)
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
