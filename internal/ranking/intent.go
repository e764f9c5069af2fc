package ranking

import (
	"regexp"
	"strings"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// impactCues mark a question as asking about organization size rather than topic.
// Multi-word cues are matched as whole phrases.
var impactCues = []string{
	"largest",
	"biggest",
	"major",
	"top",
	"leading",
	"impact",
	"highest revenue",
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Classify picks the ranking intent for a question. It is a pure function of text.
func Classify(text string) domain.Intent {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return domain.IntentSemantic
	}
	padded := " " + strings.Join(words, " ") + " "
	for _, cue := range impactCues {
		if strings.Contains(padded, " "+cue+" ") {
			return domain.IntentImpact
		}
	}
	return domain.IntentSemantic
}
