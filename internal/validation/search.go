package validation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSearch lowercases s and strips diacritics so "Véronique"
// matches "veronique".
func NormalizeSearch(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// MatchesSearch reports whether any of the fields contains term,
// case- and accent-insensitively. A blank term matches nothing.
func MatchesSearch(term string, fields ...string) bool {
	term = NormalizeSearch(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for _, f := range fields {
		if strings.Contains(NormalizeSearch(f), term) {
			return true
		}
	}
	return false
}
