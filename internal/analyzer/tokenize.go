package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

// The two scoring strategies disagree on tokenization, so both contracts
// are implemented and kept distinct. Word-boundary mode feeds the weighted
// lexicon scorer; whitespace-split mode feeds the counting scorer and every
// readability metric.

var wordBoundaryRe = regexp.MustCompile(`\w+`)

// wordBoundaryTokens lowercases the text and extracts maximal runs of
// alphanumeric/underscore characters. Punctuation acts as a separator and
// is never merged into tokens.
func wordBoundaryTokens(text string) []string {
	return wordBoundaryRe.FindAllString(strings.ToLower(text), -1)
}

// whitespaceTokens lowercases the text, strips every punctuation character
// (including punctuation inside words), then splits on whitespace.
func whitespaceTokens(text string) []string {
	return strings.Fields(stripPunctuation(strings.ToLower(text)))
}

// stripPunctuation removes punctuation and symbol characters outright
// rather than replacing them with separators, so "don't" becomes "dont".
func stripPunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
