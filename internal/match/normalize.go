// Package match provides deterministic entity fingerprints and string
// similarity scoring used for deduplication of companies, markets,
// products, competitors and leads.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes combining marks ("São" → "Sao"). Falls back to
// the input unchanged if the transform fails on malformed input.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize splits s into lowercased, accent-stripped whitespace tokens.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(StripAccents(s)))
}

// DigitsOnly strips everything except ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
