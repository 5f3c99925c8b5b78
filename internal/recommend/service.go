package recommend

import (
	"sort"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/perfume"
)

// Match pairs a catalog perfume with its cosine similarity to the query.
type Match struct {
	perfume.Perfume
	Score float64 `json:"score"`
}

// Service answers note-similarity queries against a fixed perfume catalog.
// The tf-idf model is fitted once at construction; queries are read-only and
// safe for concurrent use.
type Service struct {
	perfumes []perfume.Perfume
	vectors  []vector
	vec      *vectorizer
}

// NewService fits a tf-idf model over the catalog. Each perfume's document
// is its name, brand and notes combined, so a query can match by name as
// well as by note.
func NewService(perfumes []perfume.Perfume) *Service {
	docs := make([]string, len(perfumes))
	for i, p := range perfumes {
		docs[i] = p.Name + " " + p.Brand + " " + p.Notes
	}

	vec := newVectorizer(docs)
	vectors := make([]vector, len(docs))
	for i, doc := range docs {
		vectors[i] = vec.transform(doc)
	}

	return &Service{perfumes: perfumes, vectors: vectors, vec: vec}
}

// Len returns the catalog size.
func (s *Service) Len() int {
	return len(s.perfumes)
}

// Recommend returns the n catalog perfumes most similar to the queried
// notes, highest score first. Ties break by catalog order. The result is
// never nil so it encodes as a JSON array.
func (s *Service) Recommend(notes string, n int) []Match {
	if n < 1 {
		return []Match{}
	}

	query := s.vec.transform(notes)
	matches := make([]Match, 0, len(s.perfumes))
	for i, p := range s.perfumes {
		matches = append(matches, Match{Perfume: p, Score: cosine(query, s.vectors[i])})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if n > len(matches) {
		n = len(matches)
	}
	return matches[:n]
}
