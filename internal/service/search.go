package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/prompt"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/ranking"
)

const (
	defaultSearchLimit  = 10
	similarCount        = 3
	summarySentences    = 2
	insightPoolSize     = 20
	insightTopCount     = 5
	DefaultInsightQuery = "nonprofit financial overview"
)

// SearchResult is a record with its relevance to a query.
type SearchResult struct {
	domain.Nonprofit
	RelevanceScore float64 `json:"relevance_score"`
	Rank           int     `json:"rank"`
}

func toSearchResults(results []domain.RankedResult) []SearchResult {
	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{Nonprofit: r.Record, RelevanceScore: r.Score, Rank: r.Rank}
	}
	return out
}

// SemanticSearch ranks by text similarity regardless of the query's wording.
func (s *Service) SemanticSearch(query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.NewValidationError("query must not be blank", "")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return toSearchResults(s.ranker.Semantic(query, limit)), nil
}

// OrganizationDetails is a single organization with context around it.
type OrganizationDetails struct {
	Organization domain.Nonprofit `json:"organization"`
	Similar      []SearchResult   `json:"similar_organizations"`
	Summary      string           `json:"summary"`
	Found        bool             `json:"found"`
}

// OrganizationDetails looks an organization up by name (case-insensitive).
func (s *Service) OrganizationDetails(name string) (*OrganizationDetails, error) {
	rec, err := s.store.FindByName(name)
	if err != nil {
		return nil, err
	}
	details := &OrganizationDetails{
		Organization: rec,
		Similar:      toSearchResults(s.ranker.SimilarTo(rec, similarCount)),
		Found:        true,
	}
	if s.summarizer != nil {
		text := strings.Join([]string{
			sentence(rec.MissionDescription),
			sentence(rec.ProgramDescription),
			sentence(rec.ActivitiesDescription),
		}, " ")
		summary, err := s.summarizer.Summarize(text, summarySentences)
		if err != nil {
			s.log.WithError(err).Warn("summary failed", map[string]interface{}{"ein": rec.EIN})
		}
		details.Summary = summary
	}
	return details, nil
}

// sentence terminates free text so program lists count as one sentence each.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}

// FinancialStatistics summarizes the revenue of a set of organizations.
type FinancialStatistics struct {
	TotalRevenue      int64   `json:"total_revenue"`
	TotalExpenses     int64   `json:"total_expenses"`
	AverageRevenue    float64 `json:"average_revenue"`
	OrganizationCount int     `json:"organization_count"`
}

// FinancialInsights is the response of FinancialInsights.
type FinancialInsights struct {
	Query            string              `json:"query"`
	Insight          string              `json:"insight"`
	Statistics       FinancialStatistics `json:"statistics"`
	TopOrganizations []SearchResult      `json:"top_organizations"`
}

// FinancialInsights aggregates the organizations most relevant to query and
// asks the generator to comment on them. A failed generation yields
// FallbackResponse as the insight.
func (s *Service) FinancialInsights(ctx context.Context, query string) (*FinancialInsights, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultInsightQuery
	}
	matches := s.ranker.Semantic(query, insightPoolSize)
	if len(matches) == 0 {
		return nil, apperr.NewNotFoundError("relevant organizations", query)
	}

	var stats FinancialStatistics
	for _, m := range matches {
		stats.TotalRevenue += m.Record.TotalRevenue
		stats.TotalExpenses += m.Record.TotalExpenses
	}
	stats.OrganizationCount = len(matches)
	stats.AverageRevenue = float64(stats.TotalRevenue) / float64(len(matches))

	top := append([]domain.RankedResult(nil), matches...)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Record.TotalRevenue != top[j].Record.TotalRevenue {
			return top[i].Record.TotalRevenue > top[j].Record.TotalRevenue
		}
		return top[i].Record.Name < top[j].Record.Name
	})
	if len(top) > insightTopCount {
		top = top[:insightTopCount]
	}
	for i := range top {
		top[i].Rank = i + 1
	}

	question := "Provide financial insights for: " + query
	insight, err := s.generate(ctx, prompt.Compose(question, top), question)
	if err != nil {
		s.log.WithError(err).Warn("insight generation failed, returning fallback", map[string]interface{}{"query": query})
		insight = FallbackResponse
	}
	return &FinancialInsights{
		Query:            query,
		Insight:          insight,
		Statistics:       stats,
		TopOrganizations: toSearchResults(top),
	}, nil
}

// GenerationStatus describes the configured generation backend.
type GenerationStatus struct {
	Model         string `json:"model"`
	APIConfigured bool   `json:"api_configured"`
}

// SystemStats reports index and generator state.
type SystemStats struct {
	Index      ranking.IndexStats `json:"embedding_service"`
	Generation GenerationStatus   `json:"generation_service"`
	Status     string             `json:"status"`
}

// SystemStats reports "operational" when the index holds documents, "no_data" otherwise.
func (s *Service) SystemStats() SystemStats {
	idx := s.ranker.Stats()
	status := "operational"
	if idx.Documents == 0 {
		status = "no_data"
	}
	return SystemStats{
		Index:      idx,
		Generation: GenerationStatus{Model: s.model, APIConfigured: s.apiConfigured},
		Status:     status,
	}
}

// HealthStatus is the RAG subsystem's health.
type HealthStatus struct {
	Status     string `json:"status"`
	RAGEnabled bool   `json:"rag_enabled"`
}

// Health is degraded when there is nothing to rank or no generator key.
func (s *Service) Health() HealthStatus {
	enabled := s.ranker.Stats().Documents > 0
	status := "healthy"
	if !enabled || !s.apiConfigured {
		status = "degraded"
	}
	return HealthStatus{Status: status, RAGEnabled: enabled}
}

// ListNonprofits pages through the store.
func (s *Service) ListNonprofits(offset, limit int, filter domain.ListFilter) ([]domain.Nonprofit, int, error) {
	return s.store.ListPage(offset, limit, filter)
}

// Nonprofit looks a record up by EIN.
func (s *Service) Nonprofit(ein string) (domain.Nonprofit, error) {
	return s.store.FindByEIN(ein)
}
