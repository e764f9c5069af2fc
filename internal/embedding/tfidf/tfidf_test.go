package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepared(t *testing.T, corpus ...string) *Embedder {
	t.Helper()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))
	return e
}

func TestTokenize(t *testing.T) {
	e := NewEmbedder()
	got := e.Tokenize("What are Houston's LARGEST food-banks, in 2023?")
	assert.Equal(t, []string{"houston", "largest", "food", "banks", "2023"}, got)
}

func TestPrepareErrors(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare(nil))
	assert.Error(t, NewEmbedder().Prepare([]string{"the and of", "!!!"}))

	e := prepared(t, "food bank")
	assert.Error(t, e.Prepare([]string{"again"}))
}

func TestEmbedBeforePrepare(t *testing.T) {
	_, err := NewEmbedder().Embed("food")
	assert.Error(t, err)
}

func TestEmbedIsUnitLength(t *testing.T) {
	e := prepared(t, "food bank hunger relief", "zoo wildlife conservation", "symphony music concerts")
	assert.Equal(t, 10, e.Dimension())

	vec, err := e.Embed("hunger relief food")
	require.NoError(t, err)
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedUnknownVocabularyIsZero(t *testing.T) {
	e := prepared(t, "food bank", "zoo")
	vec, err := e.Embed("xyzzy plugh")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestRareTermsWeighMore(t *testing.T) {
	e := prepared(t, "houston food", "houston zoo", "houston music")
	vec, err := e.Embed("houston food")
	require.NoError(t, err)
	houston := vec[e.vocabulary["houston"]]
	food := vec[e.vocabulary["food"]]
	assert.Greater(t, food, houston)
}
