package sentiment

import (
	"math"
	"strings"
)

// Polarity thresholds: a score strictly above +0.1 is positive, strictly
// below -0.1 is negative, everything else (boundaries included) is neutral.
const polarityThreshold = 0.1

// Lexicon is the fallback heuristic: a weighted word-polarity scorer used
// whenever the teacher model is unavailable. It never fails; texts with no
// lexicon coverage score neutral with confidence 0.
type Lexicon struct {
	words     map[string]float64
	negations map[string]struct{}
}

// NewLexicon creates the fallback scorer with the embedded word lists.
func NewLexicon() *Lexicon {
	words := make(map[string]float64, len(positiveWords)+len(negativeWords))
	for w, weight := range positiveWords {
		words[w] = weight
	}
	for w, weight := range negativeWords {
		words[w] = -weight
	}
	return &Lexicon{words: words, negations: negationWords}
}

// Predict scores text and maps polarity onto a label. Confidence is the
// absolute polarity.
func (l *Lexicon) Predict(text string) Prediction {
	polarity := l.Score(text)
	p := Prediction{
		Label:      classifyPolarity(polarity),
		Confidence: math.Abs(polarity),
		Model:      ModelFallback,
	}
	if p.Confidence > 1 {
		p.Confidence = 1
	}
	return p
}

// Score computes a polarity in [-1, 1]: the mean signed weight of matched
// lexicon words. A negation in the preceding token reverses and weakens a
// word's contribution.
func (l *Lexicon) Score(text string) float64 {
	words := tokenize(text)

	var sum float64
	matched := 0
	for i, w := range words {
		weight, ok := l.words[w]
		if !ok {
			continue
		}
		if l.negatedAt(words, i) {
			weight = -weight * 0.5
		}
		sum += weight
		matched++
	}

	if matched == 0 {
		return 0
	}

	polarity := sum / float64(matched)
	if polarity > 1 {
		polarity = 1
	}
	if polarity < -1 {
		polarity = -1
	}
	return polarity
}

// negatedAt checks the two preceding tokens for a negation word.
func (l *Lexicon) negatedAt(words []string, i int) bool {
	start := i - 2
	if start < 0 {
		start = 0
	}
	for _, w := range words[start:i] {
		if l.isNegation(w) {
			return true
		}
	}
	return false
}

func (l *Lexicon) isNegation(word string) bool {
	if _, ok := l.negations[word]; ok {
		return true
	}
	return strings.HasSuffix(word, "n't")
}

func classifyPolarity(polarity float64) Label {
	switch {
	case polarity > polarityThreshold:
		return Positive
	case polarity < -polarityThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Weighted polarity word lists, skewed toward news vocabulary.
var positiveWords = map[string]float64{
	"good": 0.6, "great": 0.8, "excellent": 0.9, "wonderful": 0.9,
	"positive": 0.5, "success": 0.7, "successful": 0.7, "win": 0.6,
	"wins": 0.6, "victory": 0.7, "triumph": 0.8, "achievement": 0.7,
	"breakthrough": 0.7, "growth": 0.5, "improve": 0.5, "improved": 0.5,
	"improvement": 0.5, "recovery": 0.5, "strong": 0.4, "boost": 0.5,
	"surge": 0.5, "rally": 0.5, "gain": 0.4, "gains": 0.4,
	"record": 0.3, "progress": 0.5, "promising": 0.6, "hope": 0.4,
	"hopeful": 0.5, "optimistic": 0.6, "celebrate": 0.6, "celebrated": 0.6,
	"praise": 0.6, "praised": 0.6, "benefit": 0.4, "benefits": 0.4,
	"safe": 0.4, "peace": 0.6, "agreement": 0.4, "approve": 0.5,
	"approved": 0.5, "happy": 0.7, "joy": 0.8, "thriving": 0.7,
	"prosperity": 0.6, "innovative": 0.5, "outstanding": 0.8, "best": 0.7,
	"favorable": 0.5, "upbeat": 0.5, "relief": 0.4, "rescue": 0.4,
	"rescued": 0.5, "cure": 0.6, "healing": 0.5, "advance": 0.4,
}

var negativeWords = map[string]float64{
	"bad": 0.6, "terrible": 0.8, "awful": 0.8, "horrible": 0.9,
	"negative": 0.5, "crisis": 0.7, "disaster": 0.8, "catastrophe": 0.9,
	"tragedy": 0.8, "tragic": 0.8, "death": 0.7, "deaths": 0.7,
	"dead": 0.7, "killed": 0.8, "kills": 0.8, "war": 0.7,
	"attack": 0.7, "attacks": 0.7, "violence": 0.7, "violent": 0.7,
	"threat": 0.6, "fear": 0.6, "panic": 0.7, "collapse": 0.7,
	"crash": 0.7, "plunge": 0.6, "slump": 0.5, "decline": 0.4,
	"loss": 0.5, "losses": 0.5, "fail": 0.6, "failed": 0.6,
	"failure": 0.6, "worst": 0.8, "poor": 0.5, "weak": 0.4,
	"fraud": 0.8, "scandal": 0.7, "corruption": 0.7, "scam": 0.8,
	"warning": 0.4, "concern": 0.3, "concerns": 0.3, "danger": 0.6,
	"dangerous": 0.6, "damage": 0.5, "destroyed": 0.7, "destruction": 0.7,
	"injured": 0.6, "victims": 0.6, "suffering": 0.7, "outbreak": 0.6,
	"recession": 0.6, "unemployment": 0.5, "cuts": 0.4, "struggle": 0.5,
	"problem": 0.4, "problems": 0.4, "wrong": 0.4, "angry": 0.6,
}

var negationWords = map[string]struct{}{
	"no": {}, "not": {}, "nor": {}, "neither": {}, "never": {},
	"cannot": {}, "without": {}, "hardly": {}, "barely": {},
}
