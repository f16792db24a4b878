// Package normalize canonicalizes organization names for comparison.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Name trims, collapses internal whitespace runs to one space, applies
// Unicode compatibility composition and upper-cases the result. Blank input
// yields "".
func Name(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(norm.NFKC.String(s))
	if len(fields) == 0 {
		return ""
	}
	// Casers keep state, so one is built per call instead of shared.
	return cases.Upper(language.Und).String(strings.Join(fields, " "))
}

// IsBlank reports whether s normalizes to the empty string.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
