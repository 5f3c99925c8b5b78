package recommend

import (
	"math"
	"strings"
	"unicode"
)

// vector is a sparse term-weight map, L2-normalized after construction.
type vector map[string]float64

// vectorizer holds the smoothed inverse document frequencies learned from
// the perfume note corpus.
type vectorizer struct {
	idf  map[string]float64
	docs int
}

// tokenize lowercases the text and splits it into alphanumeric tokens,
// dropping tokens shorter than two characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// newVectorizer fits smoothed idf weights over the documents:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func newVectorizer(docs []string) *vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for tok, count := range df {
		idf[tok] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return &vectorizer{idf: idf, docs: len(docs)}
}

// transform builds the normalized tf-idf vector for a document. Terms not
// seen during fitting are ignored.
func (v *vectorizer) transform(doc string) vector {
	tf := make(map[string]int)
	for _, tok := range tokenize(doc) {
		if _, known := v.idf[tok]; known {
			tf[tok]++
		}
	}

	vec := make(vector, len(tf))
	var norm float64
	for tok, count := range tf {
		w := float64(count) * v.idf[tok]
		vec[tok] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for tok := range vec {
		vec[tok] /= norm
	}
	return vec
}

// cosine returns the dot product of two normalized sparse vectors.
func cosine(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for tok, w := range a {
		sum += w * b[tok]
	}
	return sum
}
