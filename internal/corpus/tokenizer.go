// Package corpus turns plain text into sentences the brain can learn, and
// keeps a brain in sync with a directory of corpus files.
package corpus

import (
	"strings"
	"unicode"
)

// Tokenize splits a line into lowercase words. Letters, digits, and
// apostrophes are word characters; every other rune separates words.
func Tokenize(line string) []string {
	var words []string
	var b strings.Builder
	for _, r := range strings.ToLower(line) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}
