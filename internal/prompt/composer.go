// Package prompt renders ranked records and a question into the text handed
// to the generation service.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// SystemFraming opens every prompt.
const SystemFraming = "You are a helpful assistant specializing in Houston nonprofit organizations. " +
	"Answer using the organizations listed below, format large dollar amounts readably (e.g. $1.2M), " +
	"and say what information is missing when the list does not cover the question."

// MissionBudget caps how many characters of a mission statement enter the prompt.
const MissionBudget = 300

const noMatches = "No matching organizations were found in the dataset."

// Compose builds the prompt: framing, one line per result in rank order, then the question.
func Compose(question string, results []domain.RankedResult) string {
	var b strings.Builder
	b.WriteString(SystemFraming)
	b.WriteString("\n\nOrganizations:\n")
	if len(results) == 0 {
		b.WriteString(noMatches)
		b.WriteString("\n")
	}
	for i, r := range results {
		rank := r.Rank
		if rank == 0 {
			rank = i + 1
		}
		fmt.Fprintf(&b, "%d. %s | %s | revenue %s | mission: %s\n",
			rank,
			r.Record.Name,
			orDefault(r.Record.NTEEDescription, "Uncategorized"),
			FormatUSD(r.Record.TotalRevenue),
			orDefault(Truncate(r.Record.MissionDescription, MissionBudget), "not provided"),
		)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}

// FormatUSD renders whole dollars with thousands separators, e.g. $425,000,000.
func FormatUSD(amount int64) string {
	return message.NewPrinter(language.English).Sprintf("$%d", amount)
}

// Truncate shortens s to at most budget runes, ending in "..." when cut.
func Truncate(s string, budget int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget <= 3 {
		return string(runes[:budget])
	}
	return strings.TrimSpace(string(runes[:budget-3])) + "..."
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
