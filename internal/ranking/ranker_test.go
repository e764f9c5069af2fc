package ranking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/store"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/store/storetest"
)

func newRanker(t *testing.T) *Ranker {
	t.Helper()
	r, err := New(storetest.Store(t), Options{})
	require.NoError(t, err)
	return r
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  domain.Intent
	}{
		{"What are Houston's largest nonprofits by impact?", domain.IntentImpact},
		{"Top food banks", domain.IntentImpact},
		{"Which organizations have the HIGHEST revenue?", domain.IntentImpact},
		{"biggest", domain.IntentImpact},
		{"How do I stop hunger?", domain.IntentSemantic},
		{"Tell me about organizations helping with food insecurity", domain.IntentSemantic},
		{"impactful arts programs", domain.IntentSemantic},
		{"", domain.IntentSemantic},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestImpactQueryRanksByRevenue(t *testing.T) {
	r := newRanker(t)
	intent, results := r.Rank("What are Houston's largest nonprofits by impact?", 0)

	assert.Equal(t, domain.IntentImpact, intent)
	require.Len(t, results, 10)
	assert.Equal(t, "Houston Food Bank", results[0].Record.Name)
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1].Record, results[i].Record
		assert.GreaterOrEqual(t, prev.TotalRevenue, cur.TotalRevenue)
		if prev.TotalRevenue == cur.TotalRevenue {
			assert.Less(t, prev.Name, cur.Name)
		}
		assert.Equal(t, i+1, results[i].Rank)
	}
	// the tied pair resolves by name
	assert.Equal(t, "Avenue Community Development", results[8].Record.Name)
	assert.Equal(t, "Bay Area Homeless Services", results[9].Record.Name)
}

func TestImpactQueryHonoursK(t *testing.T) {
	_, results := newRanker(t).Rank("top organizations", 3)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Houston Food Bank", "Memorial Hermann Foundation", "United Way of Greater Houston"},
		[]string{results[0].Record.Name, results[1].Record.Name, results[2].Record.Name})
}

func TestSemanticQueryIsMonotonicAndOverlapping(t *testing.T) {
	r := newRanker(t)
	intent, results := r.Rank("food hunger relief", 0)

	assert.Equal(t, domain.IntentSemantic, intent)
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 5)
	assert.Equal(t, "Houston Food Bank", results[0].Record.Name)
	for i, res := range results {
		assert.Greater(t, res.Score, 0.0)
		assert.Equal(t, i+1, res.Rank)
		if i > 0 {
			assert.LessOrEqual(t, res.Score, results[i-1].Score)
		}
	}
}

func TestSemanticNoOverlapIsEmpty(t *testing.T) {
	r := newRanker(t)
	_, results := r.Rank("xyzzy plugh frobnicate", 0)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestBlankQueryIsEmpty(t *testing.T) {
	r := newRanker(t)
	_, results := r.Rank("   ", 0)
	assert.Empty(t, results)
}

func TestSemanticTiesBreakByName(t *testing.T) {
	s, err := store.New([]domain.Nonprofit{
		{EIN: "1", Name: "Zeta Shelter", MissionDescription: "emergency shelter beds"},
		{EIN: "2", Name: "Alpha Shelter", MissionDescription: "emergency shelter beds"},
		{EIN: "3", Name: "Music Hall", MissionDescription: "concerts"},
	})
	require.NoError(t, err)
	r, err := New(s, Options{})
	require.NoError(t, err)

	_, results := r.Rank("emergency beds", 0)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "Alpha Shelter", results[0].Record.Name)
	assert.Equal(t, "Zeta Shelter", results[1].Record.Name)
}

func TestSemanticIgnoresImpactCues(t *testing.T) {
	results := newRanker(t).Semantic("largest zoo wildlife", 3)
	require.NotEmpty(t, results)
	assert.Equal(t, "Houston Zoo", results[0].Record.Name)
}

func TestSimilarToExcludesSelf(t *testing.T) {
	r := newRanker(t)
	museum, err := storetest.Store(t).FindByName("Houston Museum of Natural Science")
	require.NoError(t, err)

	similar := r.SimilarTo(museum, 3)
	require.NotEmpty(t, similar)
	assert.LessOrEqual(t, len(similar), 3)
	for _, s := range similar {
		assert.NotEqual(t, museum.EIN, s.Record.EIN)
	}
}

func TestStats(t *testing.T) {
	stats := newRanker(t).Stats()
	assert.Equal(t, 10, stats.Documents)
	assert.Greater(t, stats.VocabularySize, 50)
}

func TestEmptyStore(t *testing.T) {
	s, err := store.New(nil)
	require.NoError(t, err)
	r, err := New(s, Options{})
	require.NoError(t, err)

	_, results := r.Rank("food", 0)
	assert.Empty(t, results)
	_, results = r.Rank("largest", 0)
	assert.Empty(t, results)
	assert.Equal(t, IndexStats{}, r.Stats())
}

func TestConcurrentRanking(t *testing.T) {
	r := newRanker(t)
	queries := []string{"food", "largest nonprofits", "youth sports", "zoo", "music education"}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			r.Rank(q, 0)
		}(queries[i%len(queries)])
	}
	wg.Wait()
}
