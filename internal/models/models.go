package models

import "time"

// Sentiment labels produced by both scoring strategies.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Scoring strategy names. Two divergent sentiment algorithms exist in the
// wild for this engine and they disagree on tokenization and on
// negation/intensifier handling. They are kept as distinct, caller-selected
// strategies rather than reconciled into one.
const (
	StrategyWeighted = "weighted"
	StrategyCounting = "counting"
)

// Analysis represents a text analysis with its computed metrics
type Analysis struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	SourceURL string         `json:"source_url,omitempty"`
	Strategy  string         `json:"strategy"`
	Result    AnalysisResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AnalysisResult contains every metric computed for a block of text.
// Ratio metrics are 0.0 whenever their denominator would be zero.
type AnalysisResult struct {
	// Sentiment
	Polarity     float64 `json:"polarity"`     // -1.0 to 1.0
	Subjectivity float64 `json:"subjectivity"` // 0.0 to 1.0
	Label        string  `json:"label"`        // positive, negative, neutral

	// Readability
	FogIndex            float64 `json:"fog_index"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	ComplexWordCount    int     `json:"complex_word_count"`
	PercentComplexWords float64 `json:"percent_complex_words"`
	WordCount           int     `json:"word_count"`
	AvgWordLength       float64 `json:"avg_word_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
	PronounCount        int     `json:"pronoun_count"`
	StopWordCount       int     `json:"stop_word_count"`

	// Optional model-backed classification added by the worker when an
	// Ollama model is configured; empty otherwise.
	ModelLabel string  `json:"model_label,omitempty"`
	ModelScore float64 `json:"model_score,omitempty"`
}
