// Package textnorm normalizes transcribed speech before keyword matching.
// This is part of the platform layer and contains no business logic.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "Pătrați" and "patrati"
// compare equal. Romanian comma-below and cedilla letters both fold to the
// bare letter.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Lower lowercases and collapses runs of whitespace to single spaces.
func Lower(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
