package memory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// Index is an immutable in-memory vector index using brute-force cosine
// similarity. Vectors are assumed L2-normalized, so the dot product is the cosine.
type Index struct {
	dimension int
	ids       []string
	vectors   [][]float64
}

// NewIndex builds an index over ids[i] -> vectors[i].
func NewIndex(dimension int, ids []string, vectors [][]float64) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	if len(ids) != len(vectors) {
		return nil, errors.New("ids and vectors length mismatch")
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d: dimension %d, want %d", i, len(v), dimension)
		}
	}
	idx := &Index{
		dimension: dimension,
		ids:       append([]string(nil), ids...),
		vectors:   make([][]float64, len(vectors)),
	}
	for i, v := range vectors {
		idx.vectors[i] = append([]float64(nil), v...)
	}
	return idx, nil
}

// Len returns the number of indexed vectors.
func (s *Index) Len() int { return len(s.ids) }

// Search returns hits with a strictly positive score, best first. Equal
// scores keep insertion order. topK <= 0 returns every positive hit.
func (s *Index) Search(vector []float64, topK int) ([]domain.Hit, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension %d, want %d", len(vector), s.dimension)
	}
	hits := make([]domain.Hit, 0, len(s.vectors))
	for i := range s.vectors {
		if score := dot(s.vectors[i], vector); score > 0 {
			hits = append(hits, domain.Hit{ID: s.ids[i], Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		if a[i] != 0 {
			sum += a[i] * b[i]
		}
	}
	return sum
}
