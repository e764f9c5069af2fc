package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/logger"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/ranking"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/session"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/store/storetest"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/summarizer"
)

type stubGenerator struct {
	answer string
	err    error
	block  bool

	calls atomic.Int32
	mu    sync.Mutex
	last  domain.GenerationRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.last = req
	g.mu.Unlock()
	if g.block {
		<-ctx.Done()
		return "", apperr.NewUpstreamTimeoutError(time.Millisecond)
	}
	return g.answer, g.err
}

func (g *stubGenerator) lastRequest() domain.GenerationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

type failingSessions struct{}

func (failingSessions) Append(context.Context, domain.ChatTurn) error {
	return errors.New("redis: connection refused")
}

func (failingSessions) History(context.Context, string) ([]domain.ChatTurn, error) {
	return nil, errors.New("redis: connection refused")
}

func newService(t *testing.T, gen domain.Generator, mutate ...func(*Options)) *Service {
	t.Helper()
	st := storetest.Store(t)
	r, err := ranking.New(st, ranking.Options{})
	require.NoError(t, err)
	opts := Options{
		Store:         st,
		Ranker:        r,
		Generator:     gen,
		Sessions:      session.NewMemoryStore(time.Hour, 50),
		Summarizer:    summarizer.NewFrequencySummarizer(),
		Logger:        logger.NewTestLogger(t),
		Model:         "llama-3.3-70b-versatile",
		APIConfigured: true,
	}
	for _, m := range mutate {
		m(&opts)
	}
	return New(opts)
}

func TestChatImpactQuestionCitesLargestFirst(t *testing.T) {
	gen := &stubGenerator{answer: "The Houston Food Bank is the largest."}
	svc := newService(t, gen)

	question := "What are Houston's largest nonprofits by impact?"
	resp, err := svc.Chat(context.Background(), ChatRequest{Message: question})
	require.NoError(t, err)

	assert.Equal(t, "The Houston Food Bank is the largest.", resp.Response)
	assert.Equal(t, "impact", resp.Intent)
	assert.Equal(t, "responded", resp.State)
	require.Len(t, resp.Sources, 10)
	assert.Equal(t, "Houston Food Bank", resp.Sources[0].Name)
	assert.Equal(t, int64(425000000), resp.Sources[0].Revenue)
	for i, src := range resp.Sources {
		assert.Equal(t, i+1, src.Rank)
	}

	assert.Equal(t, int32(1), gen.calls.Load())
	req := gen.lastRequest()
	assert.Equal(t, question, req.UserQuestion)
	assert.Contains(t, req.SystemPrompt, "1. Houston Food Bank")
	assert.Contains(t, req.SystemPrompt, "$425,000,000")
}

func TestChatSemanticSourcesMatchRanking(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	svc := newService(t, gen)

	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "Who helps homeless families find shelter?"})
	require.NoError(t, err)
	assert.Equal(t, "semantic", resp.Intent)
	require.NotEmpty(t, resp.Sources)
	assert.Equal(t, "Bay Area Homeless Services", resp.Sources[0].Name)
	for i := 1; i < len(resp.Sources); i++ {
		assert.GreaterOrEqual(t, resp.Sources[i-1].RelevanceScore, resp.Sources[i].RelevanceScore)
	}
}

func TestChatBlankMessageNeverCallsGenerator(t *testing.T) {
	gen := &stubGenerator{answer: "unused"}
	svc := newService(t, gen)

	for _, msg := range []string{"", "   \t\n"} {
		resp, err := svc.Chat(context.Background(), ChatRequest{Message: msg})
		assert.Nil(t, resp)
		assert.True(t, apperr.Is(err, apperr.CodeValidationFailed))
	}
	assert.Equal(t, int32(0), gen.calls.Load())
}

func TestChatWithoutMatchesStillResponds(t *testing.T) {
	gen := &stubGenerator{answer: "I could not find matching organizations."}
	svc := newService(t, gen)

	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "xyzzy qwfp zorbl"})
	require.NoError(t, err)
	assert.Equal(t, "responded", resp.State)
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, int32(1), gen.calls.Load())
	assert.Contains(t, gen.lastRequest().SystemPrompt, "No matching organizations")
}

func TestChatUpstreamFailureReturnsFallback(t *testing.T) {
	gen := &stubGenerator{err: apperr.NewUpstreamError("status 500")}
	svc := newService(t, gen)

	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "food bank", ConversationID: "conv-1"})
	require.NoError(t, err)
	assert.Equal(t, FallbackResponse, resp.Response)
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, "failed", resp.State)
	assert.Equal(t, int32(1), gen.calls.Load(), "no retry")

	turns, err := svc.History(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.True(t, turns[0].Failed)
	assert.Equal(t, FallbackResponse, turns[0].Answer)
}

func TestChatGenerationIsBoundedByTimeout(t *testing.T) {
	gen := &stubGenerator{block: true}
	svc := newService(t, gen, func(o *Options) { o.Timeout = 20 * time.Millisecond })

	start := time.Now()
	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "museum"})
	require.NoError(t, err)
	assert.Equal(t, FallbackResponse, resp.Response)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChatConversationID(t *testing.T) {
	svc := newService(t, &stubGenerator{answer: "ok"})

	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "zoo", ConversationID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.ConversationID)

	resp, err = svc.Chat(context.Background(), ChatRequest{Message: "zoo"})
	require.NoError(t, err)
	_, err = uuid.Parse(resp.ConversationID)
	assert.NoError(t, err)
}

func TestChatRecordsHistory(t *testing.T) {
	svc := newService(t, &stubGenerator{answer: "ok"})
	ctx := context.Background()

	for _, q := range []string{"zoo", "symphony concerts"} {
		_, err := svc.Chat(ctx, ChatRequest{Message: q, ConversationID: "conv"})
		require.NoError(t, err)
	}
	turns, err := svc.History(ctx, "conv")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "zoo", turns[0].Question)
	assert.Equal(t, "symphony concerts", turns[1].Question)
	assert.False(t, turns[1].Timestamp.IsZero())

	_, err = svc.History(ctx, " ")
	assert.True(t, apperr.Is(err, apperr.CodeValidationFailed))
}

func TestChatIgnoresSessionFailures(t *testing.T) {
	svc := newService(t, &stubGenerator{answer: "ok"}, func(o *Options) { o.Sessions = failingSessions{} })

	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "zoo"})
	require.NoError(t, err)
	assert.Equal(t, "responded", resp.State)

	_, err = svc.History(context.Background(), resp.ConversationID)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestSuggestions(t *testing.T) {
	svc := newService(t, &stubGenerator{})
	got := svc.Suggestions()
	assert.Len(t, got, 10)
	got[0] = "mutated"
	assert.Equal(t, "What are the largest nonprofits in Houston?", svc.Suggestions()[0])
}

func TestSemanticSearch(t *testing.T) {
	svc := newService(t, &stubGenerator{})

	results, err := svc.SemanticSearch("largest music concerts", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Houston Symphony Society", results[0].Name)
	assert.Equal(t, 1, results[0].Rank)

	_, err = svc.SemanticSearch("  ", 5)
	assert.True(t, apperr.Is(err, apperr.CodeValidationFailed))
}

func TestOrganizationDetails(t *testing.T) {
	svc := newService(t, &stubGenerator{})

	details, err := svc.OrganizationDetails("houston food bank")
	require.NoError(t, err)
	assert.True(t, details.Found)
	assert.Equal(t, "74-1234567", details.Organization.EIN)
	assert.LessOrEqual(t, len(details.Similar), 3)
	for _, s := range details.Similar {
		assert.NotEqual(t, "74-1234567", s.EIN)
	}
	assert.NotEmpty(t, details.Summary)

	_, err = svc.OrganizationDetails("No Such Charity")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestFinancialInsights(t *testing.T) {
	gen := &stubGenerator{answer: "Housing providers are small."}
	svc := newService(t, gen)

	got, err := svc.FinancialInsights(context.Background(), "housing shelter")
	require.NoError(t, err)
	assert.Equal(t, "Housing providers are small.", got.Insight)
	assert.Equal(t, 2, got.Statistics.OrganizationCount)
	assert.Equal(t, int64(10000000), got.Statistics.TotalRevenue)
	assert.Equal(t, int64(9300000), got.Statistics.TotalExpenses)
	assert.InDelta(t, 5000000, got.Statistics.AverageRevenue, 1e-6)
	require.Len(t, got.TopOrganizations, 2)
	assert.Equal(t, "Avenue Community Development", got.TopOrganizations[0].Name)
	assert.Equal(t, "Provide financial insights for: housing shelter", gen.lastRequest().UserQuestion)
}

func TestFinancialInsightsTopFiveByRevenue(t *testing.T) {
	svc := newService(t, &stubGenerator{answer: "ok"})

	got, err := svc.FinancialInsights(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultInsightQuery, got.Query)
	assert.LessOrEqual(t, len(got.TopOrganizations), 5)
	for i := 1; i < len(got.TopOrganizations); i++ {
		assert.GreaterOrEqual(t, got.TopOrganizations[i-1].TotalRevenue, got.TopOrganizations[i].TotalRevenue)
	}
}

func TestFinancialInsightsFallbackAndNotFound(t *testing.T) {
	svc := newService(t, &stubGenerator{err: errors.New("boom")})

	got, err := svc.FinancialInsights(context.Background(), "museum science")
	require.NoError(t, err)
	assert.Equal(t, FallbackResponse, got.Insight)

	_, err = svc.FinancialInsights(context.Background(), "xyzzy")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSystemStatsAndHealth(t *testing.T) {
	svc := newService(t, &stubGenerator{})
	stats := svc.SystemStats()
	assert.Equal(t, "operational", stats.Status)
	assert.Equal(t, 10, stats.Index.Documents)
	assert.Positive(t, stats.Index.VocabularySize)
	assert.Equal(t, "llama-3.3-70b-versatile", stats.Generation.Model)
	assert.Equal(t, HealthStatus{Status: "healthy", RAGEnabled: true}, svc.Health())

	noKey := newService(t, &stubGenerator{}, func(o *Options) { o.APIConfigured = false })
	assert.Equal(t, HealthStatus{Status: "degraded", RAGEnabled: true}, noKey.Health())
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "generating", StateGenerating.String())
	assert.Equal(t, "unknown", State(42).String())
}
