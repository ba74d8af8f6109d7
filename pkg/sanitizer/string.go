package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims and collapses internal whitespace runs to a
// single space. Used for reschedule reasons and search queries, which stay
// human-readable rather than canonicalized.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}
