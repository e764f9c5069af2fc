package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/embedding/tfidf"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/vectorstore/memory"
)

// Strategy orders records for a query. k <= 0 returns every eligible record.
type Strategy interface {
	Rank(query string, k int) []domain.RankedResult
}

// ImpactStrategy ranks the whole store by revenue, largest first, ignoring the query text.
type ImpactStrategy struct {
	ordered []domain.Nonprofit
}

// NewImpactStrategy precomputes the revenue order of records.
func NewImpactStrategy(records []domain.Nonprofit) *ImpactStrategy {
	ordered := append([]domain.Nonprofit(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalRevenue != ordered[j].TotalRevenue {
			return ordered[i].TotalRevenue > ordered[j].TotalRevenue
		}
		return ordered[i].Name < ordered[j].Name
	})
	return &ImpactStrategy{ordered: ordered}
}

// Rank returns the top k records by revenue. The score is the revenue itself.
func (s *ImpactStrategy) Rank(_ string, k int) []domain.RankedResult {
	n := len(s.ordered)
	if k > 0 && k < n {
		n = k
	}
	out := make([]domain.RankedResult, n)
	for i := 0; i < n; i++ {
		out[i] = domain.RankedResult{
			Record: s.ordered[i],
			Score:  float64(s.ordered[i].TotalRevenue),
			Rank:   i + 1,
		}
	}
	return out
}

// SemanticStrategy ranks records by TF-IDF cosine similarity to the query.
type SemanticStrategy struct {
	embedder domain.Embedder
	index    domain.VectorIndex
	byEIN    map[string]domain.Nonprofit
}

// NewSemanticStrategy vectorizes every record's searchable text once.
// An empty record set yields a strategy that never matches.
func NewSemanticStrategy(records []domain.Nonprofit) (*SemanticStrategy, error) {
	s := &SemanticStrategy{byEIN: make(map[string]domain.Nonprofit, len(records))}
	if len(records) == 0 {
		return s, nil
	}

	corpus := make([]string, len(records))
	ids := make([]string, len(records))
	for i, r := range records {
		corpus[i] = r.SearchText()
		ids[i] = r.EIN
		s.byEIN[r.EIN] = r
	}

	emb := tfidf.NewEmbedder()
	if err := emb.Prepare(corpus); err != nil {
		return nil, fmt.Errorf("prepare tfidf: %w", err)
	}
	vectors := make([][]float64, len(corpus))
	for i, text := range corpus {
		v, err := emb.Embed(text)
		if err != nil {
			return nil, fmt.Errorf("embed %s: %w", ids[i], err)
		}
		vectors[i] = v
	}
	idx, err := memory.NewIndex(emb.Dimension(), ids, vectors)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	s.embedder = emb
	s.index = idx
	return s, nil
}

// Rank returns records with non-zero cosine similarity, best first, ties by name.
func (s *SemanticStrategy) Rank(query string, k int) []domain.RankedResult {
	return s.rank(query, k, "")
}

func (s *SemanticStrategy) rank(query string, k int, excludeEIN string) []domain.RankedResult {
	if s.index == nil || strings.TrimSpace(query) == "" {
		return []domain.RankedResult{}
	}
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return []domain.RankedResult{}
	}
	hits, err := s.index.Search(vec, 0)
	if err != nil {
		return []domain.RankedResult{}
	}

	out := make([]domain.RankedResult, 0, len(hits))
	for _, h := range hits {
		if h.ID == excludeEIN {
			continue
		}
		out = append(out, domain.RankedResult{Record: s.byEIN[h.ID], Score: h.Score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Record.Name < out[j].Record.Name
	})
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// VocabularySize is the number of distinct indexed terms.
func (s *SemanticStrategy) VocabularySize() int {
	if s.embedder == nil {
		return 0
	}
	return s.embedder.Dimension()
}

// Documents is the number of indexed records.
func (s *SemanticStrategy) Documents() int {
	if s.index == nil {
		return 0
	}
	return s.index.Len()
}
