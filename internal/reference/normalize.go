package reference

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks (FORLÌ -> FORLI).
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// normalizeKey uppercases, unifies typographic apostrophes and collapses
// whitespace so that lookups are insensitive to spreadsheet formatting.
func normalizeKey(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "`", "'")
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
