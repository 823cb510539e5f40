// Package normalize canonicalizes question/answer text before keyword comparison.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accents maps the precomposed letters seen in the Spanish and Portuguese
// corpus to their base letters. It is the fast path; anything it misses is
// folded by the decomposition chain in Text.
var accents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ñ", "n", "ü", "u",
	"à", "a", "è", "e", "ì", "i", "ò", "o", "ù", "u",
	"ã", "a", "õ", "o", "ç", "c",
)

// Text lower-cases s, folds accented letters to their base letter and trims
// surrounding whitespace. Empty input yields "". Text is idempotent.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = accents.Replace(s)
	if !isASCII(s) {
		s = fold(s)
	}
	return strings.TrimSpace(s)
}

// All normalizes every element of texts into a new slice.
func All(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Text(t)
	}
	return out
}

// fold strips combining marks left after canonical decomposition, e.g. the
// decomposed form "é" or letters outside the replacer table.
func fold(s string) string {
	// transform.Chain keeps internal buffers, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
