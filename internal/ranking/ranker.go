// Package ranking selects which nonprofit records answer a question.
package ranking

import (
	"strings"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// Options sets the default result counts per intent.
type Options struct {
	ImpactK   int
	SemanticK int
}

// IndexStats describes the semantic index.
type IndexStats struct {
	Documents      int `json:"num_documents"`
	VocabularySize int `json:"vocabulary_size"`
}

// Ranker classifies a question and dispatches to the matching strategy.
// It is built once and only read afterwards.
type Ranker struct {
	strategies map[domain.Intent]Strategy
	semantic   *SemanticStrategy
	defaultK   map[domain.Intent]int
}

// New builds both strategies over the store's records.
func New(store domain.RecordStore, opts Options) (*Ranker, error) {
	records := store.LoadAll()
	semantic, err := NewSemanticStrategy(records)
	if err != nil {
		return nil, err
	}
	if opts.ImpactK <= 0 {
		opts.ImpactK = 10
	}
	if opts.SemanticK <= 0 {
		opts.SemanticK = 5
	}
	return &Ranker{
		strategies: map[domain.Intent]Strategy{
			domain.IntentImpact:   NewImpactStrategy(records),
			domain.IntentSemantic: semantic,
		},
		semantic: semantic,
		defaultK: map[domain.Intent]int{
			domain.IntentImpact:   opts.ImpactK,
			domain.IntentSemantic: opts.SemanticK,
		},
	}, nil
}

// Rank returns the question's intent and up to k results (k <= 0 uses the
// intent's default). A blank question yields no results.
func (r *Ranker) Rank(query string, k int) (domain.Intent, []domain.RankedResult) {
	intent := Classify(query)
	return intent, r.RankAs(intent, query, k)
}

// RankAs ranks with the strategy for an already classified intent.
func (r *Ranker) RankAs(intent domain.Intent, query string, k int) []domain.RankedResult {
	if strings.TrimSpace(query) == "" {
		return []domain.RankedResult{}
	}
	if k <= 0 {
		k = r.defaultK[intent]
	}
	return r.strategies[intent].Rank(query, k)
}

// Semantic ranks by similarity only, whatever the question's wording.
func (r *Ranker) Semantic(query string, k int) []domain.RankedResult {
	if k <= 0 {
		k = r.defaultK[domain.IntentSemantic]
	}
	return r.semantic.Rank(query, k)
}

// SimilarTo finds organizations whose descriptions resemble rec's, excluding rec.
func (r *Ranker) SimilarTo(rec domain.Nonprofit, k int) []domain.RankedResult {
	parts := make([]string, 0, 3)
	for _, p := range []string{rec.MissionDescription, rec.ProgramDescription, rec.NTEEDescription} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, rec.Name)
	}
	return r.semantic.rank(strings.Join(parts, " "), k, rec.EIN)
}

// Stats reports the semantic index size.
func (r *Ranker) Stats() IndexStats {
	return IndexStats{
		Documents:      r.semantic.Documents(),
		VocabularySize: r.semantic.VocabularySize(),
	}
}
