package analyzer

import (
	"github.com/zombar/sentimeter/internal/models"
	"github.com/zombar/sentimeter/internal/wordlist"
)

// Label thresholds shared by both strategies.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// labelFor maps a score to a sentiment label using the shared thresholds.
func labelFor(score float64) string {
	switch {
	case score > positiveThreshold:
		return models.LabelPositive
	case score < negativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// scoreWeighted scores text with the weighted-lexicon strategy: per-word
// signed weights with negation and intensifier handling, over
// word-boundary tokens, in strict source order.
//
// A negation marker flips the sign of the next scored lexicon word. An
// intensifier followed by a lexicon word adds half that word's raw weight
// as a bonus on top of the word's own contribution on its next turn; the
// double count is intentional and preserved for output compatibility.
func scoreWeighted(text string, lexicon Lexicon) (score float64, label string) {
	tokens := wordBoundaryTokens(text)
	if len(tokens) == 0 {
		return 0.0, models.LabelNeutral
	}

	var sum float64
	negated := false
	for i, tok := range tokens {
		switch {
		case lexicon.Contains(tok) && !negationMarkers[tok] && !intensifiers[tok]:
			w := lexicon.Weight(tok)
			if negated {
				w = -w
			}
			sum += w
			negated = false
		case negationMarkers[tok]:
			negated = true
		case intensifiers[tok] && i+1 < len(tokens) && lexicon.Contains(tokens[i+1]):
			sum += lexicon.Weight(tokens[i+1]) / 2
		default:
			negated = false
		}
	}

	score = sum / float64(len(tokens))
	return score, labelFor(score)
}

// scoreCounting scores text with the counting strategy: bag-of-words
// polarity and subjectivity against the positive/negative/stop word sets,
// over whitespace-split tokens.
func scoreCounting(text string, stop, positive, negative wordlist.List) (polarity, subjectivity float64, label string) {
	tokens := whitespaceTokens(text)

	var surviving, positiveCount, negativeCount int
	for _, tok := range tokens {
		if stop.Contains(tok) {
			continue
		}
		surviving++
		if positive.Contains(tok) {
			positiveCount++
		}
		if negative.Contains(tok) {
			negativeCount++
		}
	}

	if surviving == 0 {
		return 0.0, 0.0, models.LabelNeutral
	}

	polarity = float64(positiveCount-negativeCount) / float64(surviving)
	// Non-stop-word density: the share of tokens that carry content rather
	// than function words.
	subjectivity = float64(surviving) / float64(len(tokens))
	return polarity, subjectivity, labelFor(polarity)
}
