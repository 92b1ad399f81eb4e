// Package analyzer implements the text-analytics engine: tokenization,
// lexicon-driven sentiment scoring and the readability metrics suite.
// Every operation is a pure computation over in-memory strings and the
// word lists supplied at construction; the package performs no I/O and is
// safe for concurrent use as long as the word lists are not mutated.
package analyzer

import (
	"github.com/zombar/sentimeter/internal/models"
	"github.com/zombar/sentimeter/internal/wordlist"
)

// Analyzer computes sentiment and readability metrics for a block of text.
type Analyzer struct {
	lists   *wordlist.Lists
	lexicon Lexicon
}

// New creates an Analyzer with the given word lists and the built-in
// sentiment lexicon.
func New(lists *wordlist.Lists) *Analyzer {
	return NewWithLexicon(lists, DefaultLexicon())
}

// NewWithLexicon creates an Analyzer with a caller-supplied lexicon.
func NewWithLexicon(lists *wordlist.Lists, lexicon Lexicon) *Analyzer {
	return &Analyzer{
		lists:   lists,
		lexicon: lexicon,
	}
}

// Analyze computes the full metric set for text under the named strategy.
// Unknown strategy names fall back to counting. Empty text yields all-zero
// metrics with a neutral label; that is a normal case, not an error.
func (a *Analyzer) Analyze(text, strategy string) models.AnalysisResult {
	result := models.AnalysisResult{}

	switch strategy {
	case models.StrategyWeighted:
		result.Polarity, result.Label = scoreWeighted(text, a.lexicon)
	default:
		result.Polarity, result.Subjectivity, result.Label = scoreCounting(
			text, a.lists.Stop, a.lists.Positive, a.lists.Negative)
	}

	content := contentWords(text, a.lists.Stop)

	result.FogIndex, result.AvgSentenceLength, result.PercentComplexWords, result.ComplexWordCount = fogIndex(text, content)
	result.WordCount = len(content)
	result.AvgWordLength = avgWordLength(content)
	result.AvgSyllablesPerWord = avgSyllablesPerWord(content)
	result.PronounCount = countPronouns(text)
	result.StopWordCount = countStopWords(text, a.lists.Stop)

	return result
}
