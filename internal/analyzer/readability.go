package analyzer

import (
	"regexp"
	"strings"

	"github.com/zombar/sentimeter/internal/wordlist"
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

	// Whole-word, case-insensitive match over the raw text.
	pronounRe = regexp.MustCompile(`(?i)\b(i|me|my|mine|you|your|yours|he|she|him|her|his|hers|it|its|we|us|our|ours|they|them|their|theirs)\b`)
)

// syllableEstimate counts vowel-group starts over {a,e,i,o,u,y}, subtracts
// one for a trailing "e" preceded by a vowel, and floors the result at 1.
// This is a heuristic with known misses versus true syllabification; the
// exact rule is kept for output compatibility.
func syllableEstimate(word string) int {
	n := vowelGroupCount(word)
	if n < 1 {
		return 1
	}
	return n
}

// vowelGroupCount is the pre-floor accumulation used by complex-word
// detection: the floor-at-1 clamp is deliberately not applied here.
func vowelGroupCount(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevWasVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevWasVowel {
			count++
		}
		prevWasVowel = v
	}
	if len(word) >= 2 && word[len(word)-1] == 'e' && isVowel(rune(word[len(word)-2])) {
		count--
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// isComplexWord reports whether a stop-word-filtered, punctuation-stripped
// token counts as complex: longer than two characters with three or more
// vowel-group starts before the floor clamp.
func isComplexWord(word string) bool {
	return len(word) > 2 && vowelGroupCount(word) >= 3
}

// countSentences splits raw text on runs of '.', '!' and '?' and counts the
// non-blank segments.
func countSentences(text string) int {
	count := 0
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

// fogIndex computes the Gunning Fog Index over the raw text:
// 0.4 * (average sentence length + percentage of complex words).
// Word count for this metric uses raw whitespace-split tokens; complex
// words are detected on the stop-word-filtered token set.
func fogIndex(text string, contentWords []string) (fog, avgSentenceLen, pctComplex float64, complexCount int) {
	totalWords := len(strings.Fields(text))
	sentences := countSentences(text)
	if totalWords == 0 || sentences == 0 {
		return 0.0, 0.0, 0.0, 0
	}

	for _, w := range contentWords {
		if isComplexWord(w) {
			complexCount++
		}
	}

	avgSentenceLen = float64(totalWords) / float64(sentences)
	pctComplex = 100 * float64(complexCount) / float64(totalWords)
	fog = 0.4 * (avgSentenceLen + pctComplex)
	return fog, avgSentenceLen, pctComplex, complexCount
}

// avgWordLength returns the mean character length of the given tokens.
func avgWordLength(words []string) float64 {
	if len(words) == 0 {
		return 0.0
	}
	total := 0
	for _, w := range words {
		total += len(w)
	}
	return float64(total) / float64(len(words))
}

// avgSyllablesPerWord returns the mean floored syllable estimate.
func avgSyllablesPerWord(words []string) float64 {
	if len(words) == 0 {
		return 0.0
	}
	total := 0
	for _, w := range words {
		total += syllableEstimate(w)
	}
	return float64(total) / float64(len(words))
}

// countPronouns counts personal pronouns as whole words over the raw,
// unfiltered text.
func countPronouns(text string) int {
	return len(pronounRe.FindAllString(text, -1))
}

// countStopWords counts punctuation-stripped, lowercased, whitespace-split
// raw tokens that appear in the stop word list. No stop-word removal is
// applied first; this is the complement of the content word count on the
// same token universe.
func countStopWords(text string, stop wordlist.List) int {
	count := 0
	for _, tok := range whitespaceTokens(text) {
		if stop.Contains(tok) {
			count++
		}
	}
	return count
}

// contentWords returns whitespace-split tokens with stop words removed;
// this is the token set shared by word count, average word length, average
// syllables per word and complex-word detection.
func contentWords(text string, stop wordlist.List) []string {
	tokens := whitespaceTokens(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stop.Contains(tok) {
			out = append(out, tok)
		}
	}
	return out
}
