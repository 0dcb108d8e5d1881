// Package timeparse resolves natural-language Vietnamese date references
// into concrete calendar dates.
package timeparse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text and strips Vietnamese diacritics so patterns can
// match both accented and unaccented spellings. Idempotent and never fails.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripper, lowered)
	if err != nil {
		stripped = lowered
	}
	// đ is not a combining mark, handle it separately.
	stripped = strings.ReplaceAll(stripped, "đ", "d")
	return stripped
}
