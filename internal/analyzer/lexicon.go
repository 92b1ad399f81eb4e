package analyzer

// Lexicon maps lowercase words to signed sentiment weights in [-1, 1].
// Lookup of an absent word yields 0.0; that is a normal case, not an error.
type Lexicon map[string]float64

// Weight returns the signed weight for a word, or 0.0 when absent.
func (l Lexicon) Weight(word string) float64 {
	return l[word]
}

// Contains reports whether the word has an entry in the lexicon.
func (l Lexicon) Contains(word string) bool {
	_, ok := l[word]
	return ok
}

// negationMarkers flip the sign of the next scored lexicon word.
var negationMarkers = map[string]bool{
	"not": true,
	"n't": true,
	"no":  true,
}

// intensifiers add half the following lexicon word's raw weight as a bonus.
var intensifiers = map[string]bool{
	"very":      true,
	"extremely": true,
	"really":    true,
}

// defaultWeights holds the built-in sentiment weights, including the
// negation and intensifier markers themselves. Marker weights are present
// for completeness but never scored directly; the scorer handles markers
// before weight lookup.
var defaultWeights = map[string]float64{
	// positive
	"good": 0.7, "great": 0.8, "excellent": 0.9, "amazing": 0.9,
	"wonderful": 0.9, "fantastic": 0.9, "best": 0.8, "love": 0.9,
	"loved": 0.9, "beautiful": 0.8, "perfect": 0.9, "awesome": 0.9,
	"brilliant": 0.8, "outstanding": 0.8, "superb": 0.8, "happy": 0.7,
	"glad": 0.6, "pleased": 0.6, "satisfied": 0.6, "impressive": 0.7,
	"remarkable": 0.7, "positive": 0.6, "success": 0.7, "successful": 0.7,
	"win": 0.6, "better": 0.5, "improved": 0.5, "enjoyable": 0.7,
	"delightful": 0.8, "pleasant": 0.6, "exciting": 0.7, "hopeful": 0.5,
	"promising": 0.5, "favorable": 0.5,

	// negative
	"bad": -0.7, "terrible": -0.9, "awful": -0.9, "horrible": -0.9,
	"poor": -0.6, "worst": -0.9, "hate": -0.9, "hated": -0.9,
	"ugly": -0.7, "disgusting": -0.9, "disappointing": -0.7,
	"disappointed": -0.7, "fail": -0.7, "failed": -0.7, "failure": -0.8,
	"wrong": -0.5, "problem": -0.4, "broken": -0.6, "difficult": -0.4,
	"impossible": -0.6, "negative": -0.6, "sad": -0.7, "unhappy": -0.7,
	"angry": -0.8, "frustrated": -0.7, "frustrating": -0.7,
	"annoying": -0.6, "worried": -0.5, "afraid": -0.6, "scary": -0.6,
	"dangerous": -0.6, "harmful": -0.6, "worse": -0.6, "useless": -0.7,

	// negation markers
	"not": -0.5, "n't": -0.5, "no": -0.5,

	// intensifiers
	"very": 0.3, "extremely": 0.4, "really": 0.3,
}

// DefaultLexicon returns a fresh copy of the built-in lexicon. Callers get
// their own map, so nothing shares cross-call mutable state.
func DefaultLexicon() Lexicon {
	l := make(Lexicon, len(defaultWeights))
	for w, weight := range defaultWeights {
		l[w] = weight
	}
	return l
}
