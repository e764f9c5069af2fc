package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexValidates(t *testing.T) {
	_, err := NewIndex(0, nil, nil)
	assert.Error(t, err)

	_, err = NewIndex(2, []string{"a"}, nil)
	assert.Error(t, err)

	_, err = NewIndex(2, []string{"a"}, [][]float64{{1, 0, 0}})
	assert.Error(t, err)
}

func TestSearchOrdersAndExcludesZero(t *testing.T) {
	idx, err := NewIndex(3,
		[]string{"a", "b", "c", "d"},
		[][]float64{
			{1, 0, 0},
			{0.6, 0.8, 0},
			{0, 0, 1},
			{0.6, 0.8, 0},
		})
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	hits, err := idx.Search([]float64{0, 1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	// equal scores keep insertion order
	assert.Equal(t, "b", hits[0].ID)
	assert.Equal(t, "d", hits[1].ID)
	assert.InDelta(t, 0.8, hits[0].Score, 1e-12)

	hits, err = idx.Search([]float64{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestSearchDimensionMismatch(t *testing.T) {
	idx, err := NewIndex(2, []string{"a"}, [][]float64{{1, 0}})
	require.NoError(t, err)
	_, err = idx.Search([]float64{1}, 1)
	assert.Error(t, err)
}
