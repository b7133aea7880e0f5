package sentiment

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// vectorizer turns text into fixed-width TF-IDF feature vectors over
// unigrams and bigrams. A vectorizer is fit once and then read-only; the
// student swaps in a freshly fit instance on every retrain.
type vectorizer struct {
	maxFeatures int
	vocab       map[string]int
	idf         []float64
}

func newVectorizer(maxFeatures int) *vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = 5000
	}
	return &vectorizer{maxFeatures: maxFeatures}
}

// fit builds the vocabulary and IDF table from a corpus, replacing any prior
// state. Terms are selected by document frequency, capped at maxFeatures.
func (v *vectorizer) fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	docFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range ngrams(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return ErrEmptyCorpus
	}

	type termFreq struct {
		term string
		df   int
	}
	terms := make([]termFreq, 0, len(docFreq))
	for term, df := range docFreq {
		terms = append(terms, termFreq{term, df})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].df != terms[j].df {
			return terms[i].df > terms[j].df
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}

	n := float64(len(corpus))
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, tf := range terms {
		v.vocab[tf.term] = i
		// Smoothed IDF, so terms present in every document still carry
		// a small positive weight.
		v.idf[i] = math.Log((1+n)/(1+float64(tf.df))) + 1
	}
	return nil
}

// transform maps text onto the fitted vocabulary, returning an L2-normalized
// TF-IDF vector. Unknown terms are ignored.
func (v *vectorizer) transform(text string) []float64 {
	vec := make([]float64, len(v.idf))
	if v.vocab == nil {
		return vec
	}

	for _, term := range ngrams(text) {
		if idx, ok := v.vocab[term]; ok {
			vec[idx] += v.idf[idx]
		}
	}

	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

// size returns the fitted vocabulary size.
func (v *vectorizer) size() int {
	return len(v.vocab)
}

// ngrams tokenizes text into lowercase unigrams and bigrams.
func ngrams(text string) []string {
	words := tokenize(text)
	terms := make([]string, 0, 2*len(words))
	for i, w := range words {
		terms = append(terms, w)
		if i+1 < len(words) {
			terms = append(terms, w+" "+words[i+1])
		}
	}
	return terms
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}
