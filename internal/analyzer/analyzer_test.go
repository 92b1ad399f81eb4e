package analyzer

import (
	"reflect"
	"testing"

	"github.com/zombar/sentimeter/internal/models"
	"github.com/zombar/sentimeter/internal/wordlist"
)

var wordlistEmpty = wordlist.Lists{
	Positive: wordlist.List{},
	Negative: wordlist.List{},
	Stop:     wordlist.List{},
}

func TestAnalyzeCounting(t *testing.T) {
	a := New(testLists(t))

	// 8 raw words, 2 sentences; stop words: the, was, the, was;
	// content: movie, amazing, plot, terrible
	text := "The movie was amazing. The plot was terrible."
	result := a.Analyze(text, models.StrategyCounting)

	if !almostEqual(result.Polarity, 0.0) {
		t.Errorf("expected polarity 0.0, got %v", result.Polarity)
	}
	if !almostEqual(result.Subjectivity, 0.5) {
		t.Errorf("expected subjectivity 0.5, got %v", result.Subjectivity)
	}
	if result.Label != models.LabelNeutral {
		t.Errorf("expected neutral label, got %s", result.Label)
	}
	if result.WordCount != 4 {
		t.Errorf("expected word count 4, got %d", result.WordCount)
	}
	if result.StopWordCount != 4 {
		t.Errorf("expected stop word count 4, got %d", result.StopWordCount)
	}
	// amazing and terrible both have 3 vowel groups
	if result.ComplexWordCount != 2 {
		t.Errorf("expected 2 complex words, got %d", result.ComplexWordCount)
	}
	if !almostEqual(result.AvgSentenceLength, 4.0) {
		t.Errorf("expected avg sentence length 4.0, got %v", result.AvgSentenceLength)
	}
	if !almostEqual(result.PercentComplexWords, 25.0) {
		t.Errorf("expected 25%% complex words, got %v", result.PercentComplexWords)
	}
	// 0.4 * (4 + 25)
	if !almostEqual(result.FogIndex, 11.6) {
		t.Errorf("expected fog index 11.6, got %v", result.FogIndex)
	}
	// movie(5) amazing(7) plot(4) terrible(8) = 24/4
	if !almostEqual(result.AvgWordLength, 6.0) {
		t.Errorf("expected avg word length 6.0, got %v", result.AvgWordLength)
	}
	// movie=1 amazing=3 plot=1 terrible=3 = 8/4
	if !almostEqual(result.AvgSyllablesPerWord, 2.0) {
		t.Errorf("expected avg syllables 2.0, got %v", result.AvgSyllablesPerWord)
	}
	if result.PronounCount != 0 {
		t.Errorf("expected 0 pronouns, got %d", result.PronounCount)
	}
}

func TestAnalyzeWeighted(t *testing.T) {
	a := New(testLists(t))

	result := a.Analyze("I love this amazing product", models.StrategyWeighted)

	if result.Polarity <= 0 {
		t.Errorf("expected positive polarity, got %v", result.Polarity)
	}
	if result.Label != models.LabelPositive {
		t.Errorf("expected positive label, got %s", result.Label)
	}
	// Readability metrics are computed regardless of strategy
	if result.WordCount == 0 {
		t.Error("expected non-zero word count")
	}
	if result.PronounCount != 1 {
		t.Errorf("expected 1 pronoun, got %d", result.PronounCount)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := New(testLists(t))

	for _, strategy := range []string{models.StrategyCounting, models.StrategyWeighted} {
		result := a.Analyze("", strategy)

		if result.Label != models.LabelNeutral {
			t.Errorf("%s: expected neutral label, got %s", strategy, result.Label)
		}
		zero := models.AnalysisResult{Label: models.LabelNeutral}
		if result != zero {
			t.Errorf("%s: expected all-zero result, got %+v", strategy, result)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := New(testLists(t))

	text := "The service was excellent, though the wait was terrible. I doubt we will return."
	first := a.Analyze(text, models.StrategyCounting)
	second := a.Analyze(text, models.StrategyCounting)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis differs:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeUnknownStrategyFallsBack(t *testing.T) {
	a := New(testLists(t))

	text := "an amazing wonderful day"
	unknown := a.Analyze(text, "something-else")
	counting := a.Analyze(text, models.StrategyCounting)

	if !reflect.DeepEqual(unknown, counting) {
		t.Error("unknown strategy should behave like counting")
	}
}

func TestAnalyzeToleratesEmptyWordLists(t *testing.T) {
	// An analyzer with empty lists must produce neutral metrics, never
	// fail. This mirrors the word list provider's empty-on-error contract.
	a := New(&wordlistEmpty)

	result := a.Analyze("Some perfectly ordinary text.", models.StrategyCounting)
	if result.Label != models.LabelNeutral {
		t.Errorf("expected neutral label, got %s", result.Label)
	}
	if result.Polarity != 0.0 {
		t.Errorf("expected zero polarity, got %v", result.Polarity)
	}
	if result.StopWordCount != 0 {
		t.Errorf("expected zero stop words, got %d", result.StopWordCount)
	}
	if result.WordCount == 0 {
		t.Error("content words should still be counted")
	}
}
