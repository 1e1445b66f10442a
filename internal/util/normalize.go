package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a string for comparison: accents are folded away,
// surrounding whitespace is trimmed and the result is lower-cased.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// isMn reports whether r is a non-spacing mark (an accent after NFD).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// SameSet reports whether a and b hold the same strings, ignoring order and
// repetition.
func SameSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := setA[s]; !ok {
			return false
		}
		setB[s] = struct{}{}
	}
	return len(setA) == len(setB)
}
