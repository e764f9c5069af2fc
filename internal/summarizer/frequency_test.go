package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := NewFrequencySummarizer()

	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"empty", "", 2, ""},
		{"no punctuation", "  food distribution, mobile pantries  ", 2, "food distribution, mobile pantries"},
		{"fewer sentences than max", "Feeds families. Runs pantries.", 2, "Feeds families. Runs pantries."},
		{
			name: "keeps frequent sentences in order",
			text: "Food banks fight hunger. The weather was nice. Hunger relief needs food banks. Parking is free.",
			max:  2,
			want: "Food banks fight hunger. Hunger relief needs food banks.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Summarize(tt.text, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeDefaultsToTwoSentences(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize("One music school. Two music halls. Three music camps. Four music tours.", 0)
	require.NoError(t, err)
	assert.Len(t, splitSentences(got), 2)
}

func TestSummarizeHandlesCurlyApostrophes(t *testing.T) {
	toks := NewFrequencySummarizer().tokens("Houston’s children’s museum")
	assert.Equal(t, []string{"houston’s", "children’s", "museum"}, toks)
}
