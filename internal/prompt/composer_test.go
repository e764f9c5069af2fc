package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

func TestComposeLayout(t *testing.T) {
	results := []domain.RankedResult{
		{Rank: 1, Score: 0.8, Record: domain.Nonprofit{
			Name: "Houston Food Bank", NTEEDescription: "Human Services - Emergency Aid",
			TotalRevenue: 425000000, MissionDescription: "To lead the fight against hunger.",
		}},
		{Rank: 2, Score: 0.3, Record: domain.Nonprofit{Name: "Houston Zoo", TotalRevenue: 65000000}},
	}
	out := Compose("  Who fights hunger? ", results)

	lines := strings.Split(out, "\n")
	assert.Equal(t, SystemFraming, lines[0])
	assert.Contains(t, out, "1. Houston Food Bank | Human Services - Emergency Aid | revenue $425,000,000 | mission: To lead the fight against hunger.\n")
	assert.Contains(t, out, "2. Houston Zoo | Uncategorized | revenue $65,000,000 | mission: not provided\n")
	assert.True(t, strings.HasSuffix(out, "\nQuestion: Who fights hunger?"))
	assert.Less(t, strings.Index(out, "Houston Food Bank"), strings.Index(out, "Houston Zoo"))
}

func TestComposeWithoutResults(t *testing.T) {
	out := Compose("xyzzy", nil)
	assert.Contains(t, out, noMatches)
	assert.True(t, strings.HasSuffix(out, "Question: xyzzy"))
}

func TestComposeTruncatesMission(t *testing.T) {
	long := strings.Repeat("feeding families ", 60)
	out := Compose("q", []domain.RankedResult{{Rank: 1, Record: domain.Nonprofit{Name: "A", MissionDescription: long}}})

	start := strings.Index(out, "mission: ") + len("mission: ")
	end := strings.Index(out[start:], "\n")
	mission := out[start : start+end]
	assert.LessOrEqual(t, utf8.RuneCountInString(mission), MissionBudget)
	assert.True(t, strings.HasSuffix(mission, "..."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "abc...", Truncate("abcdefghij", 6))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 8))
	assert.Equal(t, "a b", Truncate("a \n  b", 10))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0", FormatUSD(0))
	assert.Equal(t, "$1,234", FormatUSD(1234))
	assert.Equal(t, "$425,000,000", FormatUSD(425000000))
}
