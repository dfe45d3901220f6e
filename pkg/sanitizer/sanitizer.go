// Package sanitizer normalizes free-text input before validation and
// persistence. It never rejects input; it only trims, collapses, and strips
// characters that have no business being in a name or address.
package sanitizer

import (
	"strings"
	"unicode"
)

// stripControl drops control runes but keeps whitespace (tabs, newlines) so
// collapseSpaces can fold them into single separators instead of fusing the
// surrounding words.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
