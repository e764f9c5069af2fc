package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/ranking"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/store"
)

func TestDashboardTotals(t *testing.T) {
	stats := newService(t, &stubGenerator{}).Dashboard()

	assert.Equal(t, 10, stats.TotalNonprofits)
	assert.Equal(t, int64(780000000), stats.TotalRevenue)
	assert.InDelta(t, 78000000, stats.AverageRevenue, 1e-6)

	var sum int64
	for _, c := range stats.RevenueByCategory {
		sum += c.Revenue
	}
	assert.Equal(t, stats.TotalRevenue, sum)
	assert.Equal(t, "P24", stats.RevenueByCategory[0].Code)
}

func TestDashboardDistributionOrder(t *testing.T) {
	stats := newService(t, &stubGenerator{}).Dashboard()

	codes := make([]string, len(stats.NTEEDistribution))
	for i, c := range stats.NTEEDistribution {
		codes[i] = c.Code
	}
	assert.Equal(t, []string{"A20", "P20", "B21", "D20", "E20", "P21", "P23", "P24"}, codes)
	assert.Equal(t, 2, stats.NTEEDistribution[0].Count)
	assert.Equal(t, int64(80000000), stats.NTEEDistribution[0].TotalRevenue)
	assert.Equal(t, "Arts, Culture & Humanities - Visual Arts", stats.NTEEDistribution[0].Description)

	require.Len(t, stats.TopCategories, 5)
	assert.Equal(t, stats.NTEEDistribution[:5], stats.TopCategories)
}

func TestDashboardUncategorized(t *testing.T) {
	st, err := store.New([]domain.Nonprofit{{EIN: "1", Name: "Solo", TotalRevenue: 7}})
	require.NoError(t, err)
	r, err := ranking.New(st, ranking.Options{})
	require.NoError(t, err)

	stats := New(Options{Store: st, Ranker: r, Generator: &stubGenerator{}}).Dashboard()
	require.Len(t, stats.NTEEDistribution, 1)
	assert.Equal(t, "Uncategorized", stats.NTEEDistribution[0].Description)
	assert.Equal(t, int64(7), stats.RevenueByCategory[0].Revenue)
}
