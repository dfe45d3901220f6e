package sanitizer

import "strings"

// SanitizeName cleans a restaurant or room display name: control characters
// removed, interior whitespace collapsed, edges trimmed.
func SanitizeName(s string) string {
	return collapseSpaces(stripControl(s))
}

// SanitizeAddress applies the same normalization as SanitizeName; addresses
// tolerate any printable character.
func SanitizeAddress(s string) string {
	return collapseSpaces(stripControl(s))
}

// SanitizeEmail lowercases and trims an email address. Format validation is
// the validator's job.
func SanitizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(stripControl(s)))
}
