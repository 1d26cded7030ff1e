package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes accented characters and drops the combining
// marks, so "Apartamento à Beira-Mar" becomes "Apartamento a Beira-Mar".
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify derives a URL slug from a listing title. It is deterministic and
// idempotent: lowercase, diacritics stripped, runs of non-alphanumerics
// replaced by a single dash, leading/trailing dashes trimmed.
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	stripped, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input.
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	lastDash := true // suppress leading dash
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
