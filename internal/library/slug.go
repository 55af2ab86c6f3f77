package library

import (
	"strings"
	"unicode"
)

// Slugify converts free text into a filename-safe slug.
// Example: "Anna Karenina" → "anna-karenina"
//
// Rules:
//   - Lowercase, leading/trailing whitespace stripped
//   - Characters outside {letters, digits, underscore, whitespace, hyphen}
//     are removed ("Don't" → "dont")
//   - Runs of whitespace and underscores collapse into a single hyphen
//
// The function is deterministic and stable; it is the sole key-derivation
// function for author slugs and reflection filenames, so the same author
// named in the reading log and in the authors entity always joins on the
// same key.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '_':
			pendingHyphen = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingHyphen {
				b.WriteByte('-')
				pendingHyphen = false
			}
			b.WriteRune(r)
		}
	}
	if pendingHyphen {
		// A trailing run of whitespace/underscores still collapses to a
		// hyphen, matching the collapse rule everywhere else.
		b.WriteByte('-')
	}
	return b.String()
}
