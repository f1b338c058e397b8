// Package textutils provides text normalization and similarity helpers.
package textutils

import (
	"regexp"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lower-cases s, trims it and collapses inner whitespace.
func Normalize(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Ratio returns the normalized edit-distance similarity of a and b on a
// 0..100 scale. Substitutions cost two edits, so the score equals
// 100 * (len(a)+len(b)-distance) / (len(a)+len(b)). Inputs are compared
// as given; callers normalize case.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions) * 100
}

// FoldedRatio is Ratio over the normalized forms of a and b.
func FoldedRatio(a, b string) float64 {
	return Ratio(Normalize(a), Normalize(b))
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {},
}

// MeaningfulWords splits a lower-cased description on whitespace and keeps
// the words longer than three characters that are not stop words.
func MeaningfulWords(description string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(description)) {
		if len([]rune(w)) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}
