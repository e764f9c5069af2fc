package domain

import (
	"context"
	"strings"
	"time"
)

// Nonprofit is a single organization record loaded from the dataset.
// Records are immutable once the store is built.
type Nonprofit struct {
	EIN                   string `json:"ein"`
	Name                  string `json:"name"`
	NTEECode              string `json:"ntee_code"`
	NTEEDescription       string `json:"ntee_description"`
	MissionDescription    string `json:"mission_description"`
	ProgramDescription    string `json:"program_description"`
	ActivitiesDescription string `json:"activities_description"`
	StreetAddress         string `json:"street_address"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zip_code"`
	TotalRevenue          int64  `json:"total_revenue"`
	TotalExpenses         int64  `json:"total_expenses"`
	NetAssets             int64  `json:"net_assets"`
	TaxYear               int    `json:"tax_year,omitempty"`
	FilingType            string `json:"filing_type,omitempty"`
	Website               string `json:"website"`
	Phone                 string `json:"phone"`
}

// SearchText is the text a record is indexed under for semantic ranking.
func (n Nonprofit) SearchText() string {
	parts := []string{n.Name, n.NTEEDescription, n.MissionDescription, n.ProgramDescription, n.ActivitiesDescription}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Intent selects which ranking strategy answers a question.
type Intent int

const (
	IntentSemantic Intent = iota
	IntentImpact
)

func (i Intent) String() string {
	switch i {
	case IntentImpact:
		return "impact"
	default:
		return "semantic"
	}
}

// RankedResult pairs a record with its relevance score and 1-based rank.
// Scores are only meaningful relative to other results of the same query.
type RankedResult struct {
	Record Nonprofit
	Score  float64
	Rank   int
}

// Source is a record cited in a chat answer.
type Source struct {
	Name           string  `json:"name"`
	EIN            string  `json:"ein"`
	Category       string  `json:"category"`
	Website        string  `json:"website"`
	RelevanceScore float64 `json:"relevance_score"`
	Revenue        int64   `json:"revenue"`
	Rank           int     `json:"rank"`
}

// ChatTurn is one question/answer exchange.
type ChatTurn struct {
	ConversationID string    `json:"conversation_id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Sources        []Source  `json:"sources"`
	Intent         string    `json:"intent"`
	Failed         bool      `json:"failed"`
	Timestamp      time.Time `json:"timestamp"`
}

// ListFilter narrows a record listing.
type ListFilter struct {
	Search   string
	NTEECode string
}

// RecordStore is the read-only view over the loaded dataset.
type RecordStore interface {
	LoadAll() []Nonprofit
	FindByEIN(ein string) (Nonprofit, error)
	FindByName(name string) (Nonprofit, error)
	ListPage(offset, limit int, filter ListFilter) ([]Nonprofit, int, error)
	Len() int
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Hit is a vector index match.
type Hit struct {
	ID    string
	Score float64
}

// VectorIndex supports similarity search over prebuilt vectors.
type VectorIndex interface {
	Search(vector []float64, topK int) ([]Hit, error)
	Len() int
}

// GenerationRequest is the payload handed to the external text generator.
type GenerationRequest struct {
	SystemPrompt string
	UserQuestion string
}

// Generator produces answer text for a composed prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// SessionStore keeps chat turns per conversation.
type SessionStore interface {
	Append(ctx context.Context, turn ChatTurn) error
	History(ctx context.Context, conversationID string) ([]ChatTurn, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
