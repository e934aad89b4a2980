// SPDX-License-Identifier: MIT

package record

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks after canonical decomposition, so
// "Télévision" becomes "Television" before slugging.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts an operator-supplied htmlName into a URL-safe slug, so
// "Épisode 01" becomes "episode-01". CJK letters are kept as-is since the
// category labels and many titles are Chinese; they are valid in query values.
func Slugify(name string) string {
	if name == "" {
		return ""
	}

	s := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}

	var b strings.Builder
	lastWasDash := false
	for _, r := range s {
		switch {
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastWasDash = false
		case r >= 128 && unicode.IsLetter(r):
			b.WriteRune(r)
			lastWasDash = false
		case !lastWasDash:
			b.WriteRune('-')
			lastWasDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")

	// Keep generated routes short enough to paste around.
	if rs := []rune(slug); len(rs) > 64 {
		slug = strings.TrimRight(string(rs[:64]), "-")
	}
	return slug
}
