package owners

import (
	"regexp"
	"strings"
)

var (
	unknownFragment = regexp.MustCompile(`(?i)unknown\s+\S+`)
	timeoutMarker   = regexp.MustCompile(`(?i)timeout-pending`)
	birthClause     = regexp.MustCompile(`(?i)\bnat[oa](?:/a)?\s+a\b.*$`)
)

// CleanName strips enrichment artefacts from an owner name: generated
// "Unknown <id>" fragments, Timeout-Pending markers, everything from a birth
// clause ("nato/a a ...") or a semicolon onward. Whitespace is collapsed.
func CleanName(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	s = birthClause.ReplaceAllString(s, "")
	s = unknownFragment.ReplaceAllString(s, "")
	s = timeoutMarker.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// splitName picks first and last name from separate fields. A single
// available name goes to the last name only so that it is not repeated
// across both CRM fields; with neither, fallback becomes the last name.
func splitName(first, last, fallback string) (string, string) {
	first, last = CleanName(first), CleanName(last)
	switch {
	case first != "" && last != "":
		return first, last
	case last != "":
		return "", last
	case first != "":
		return "", first
	default:
		return "", CleanName(fallback)
	}
}
