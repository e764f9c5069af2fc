// Package service coordinates ranking, prompt composition and generation for
// chat turns, and serves the read-only views over the dataset.
package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/logger"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/metrics"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/prompt"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/ranking"
)

// FallbackResponse is returned in place of an answer whenever generation fails.
const FallbackResponse = "I apologize, but I encountered an error while processing your question about Houston nonprofits. Please try rephrasing your question."

// State is a chat turn's position in the orchestration pipeline.
type State int

const (
	StateReceived State = iota
	StateClassified
	StateRanked
	StateComposed
	StateGenerating
	StateResponded
	StateFailed
)

var stateNames = [...]string{"received", "classified", "ranked", "composed", "generating", "responded", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Options wires the service's collaborators.
type Options struct {
	Store      domain.RecordStore
	Ranker     *ranking.Ranker
	Generator  domain.Generator
	Sessions   domain.SessionStore
	Summarizer domain.Summarizer
	Logger     logger.Logger

	// Timeout bounds each generation call. Zero means 30s.
	Timeout time.Duration
	// Model and APIConfigured are reported by SystemStats and Health.
	Model         string
	APIConfigured bool
}

// Service answers chat turns and dataset queries. It holds no mutable state
// of its own; the session store is the only shared writable collaborator.
type Service struct {
	store      domain.RecordStore
	ranker     *ranking.Ranker
	generator  domain.Generator
	sessions   domain.SessionStore
	summarizer domain.Summarizer
	log        logger.Logger

	timeout       time.Duration
	model         string
	apiConfigured bool
	now           func() time.Time
}

// New creates a Service. Store, Ranker and Generator are required.
func New(opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &Service{
		store:         opts.Store,
		ranker:        opts.Ranker,
		generator:     opts.Generator,
		sessions:      opts.Sessions,
		summarizer:    opts.Summarizer,
		log:           opts.Logger,
		timeout:       opts.Timeout,
		model:         opts.Model,
		apiConfigured: opts.APIConfigured,
		now:           time.Now,
	}
}

// ChatRequest is one user question.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the outcome of a chat turn. Sources is empty, never nil.
type ChatResponse struct {
	Response       string          `json:"response"`
	Sources        []domain.Source `json:"sources"`
	ConversationID string          `json:"conversation_id"`
	Intent         string          `json:"intent"`
	State          string          `json:"state"`
}

type turn struct {
	id    string
	state State
	log   logger.Logger
}

func (t *turn) enter(s State) {
	t.state = s
	metrics.ChatStateTransitions.WithLabelValues(s.String()).Inc()
	t.log.Debug("chat state", map[string]interface{}{"state": s.String()})
}

// Chat runs one turn: classify, rank, compose, generate. A blank message is a
// validation error and nothing downstream runs. Generation failures never
// surface as errors; the turn fails over to FallbackResponse with no sources.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	t := &turn{id: conversationID, log: s.log.WithFields(map[string]interface{}{"conversation_id": conversationID})}
	t.enter(StateReceived)

	question := strings.TrimSpace(req.Message)
	if question == "" {
		t.enter(StateFailed)
		metrics.ChatTurns.WithLabelValues(StateFailed.String(), "none").Inc()
		return nil, apperr.NewValidationError("message must not be blank", "")
	}

	intent := ranking.Classify(question)
	t.enter(StateClassified)

	results := s.ranker.RankAs(intent, question, 0)
	metrics.RankedResults.WithLabelValues(intent.String()).Observe(float64(len(results)))
	t.enter(StateRanked)

	composed := prompt.Compose(question, results)
	t.enter(StateComposed)

	t.enter(StateGenerating)
	answer, err := s.generate(ctx, composed, question)

	resp := &ChatResponse{
		ConversationID: conversationID,
		Intent:         intent.String(),
	}
	if err != nil {
		t.enter(StateFailed)
		t.log.WithError(err).Warn("generation failed, returning fallback", map[string]interface{}{
			"code":   string(apperr.CodeOf(err)),
			"intent": intent.String(),
		})
		resp.Response = FallbackResponse
		resp.Sources = []domain.Source{}
	} else {
		t.enter(StateResponded)
		resp.Response = answer
		resp.Sources = ToSources(results)
	}
	resp.State = t.state.String()
	metrics.ChatTurns.WithLabelValues(resp.State, resp.Intent).Inc()
	t.log.Info("chat turn complete", map[string]interface{}{
		"state":   resp.State,
		"intent":  resp.Intent,
		"sources": len(resp.Sources),
	})

	s.record(ctx, t, domain.ChatTurn{
		ConversationID: conversationID,
		Question:       question,
		Answer:         resp.Response,
		Sources:        resp.Sources,
		Intent:         resp.Intent,
		Failed:         err != nil,
		Timestamp:      s.now().UTC(),
	})
	return resp, nil
}

func (s *Service) generate(ctx context.Context, systemPrompt, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.generator.Generate(ctx, domain.GenerationRequest{SystemPrompt: systemPrompt, UserQuestion: question})
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(string(apperr.CodeOf(err)))
	}
	metrics.GenerationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return answer, err
}

func (s *Service) record(ctx context.Context, t *turn, ct domain.ChatTurn) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Append(ctx, ct); err != nil {
		metrics.SessionAppendFailures.Inc()
		t.log.WithError(err).Warn("failed to store chat turn", nil)
	}
}

// History returns the stored turns of a conversation, oldest first.
func (s *Service) History(ctx context.Context, conversationID string) ([]domain.ChatTurn, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, apperr.NewValidationError("conversation id must not be blank", "")
	}
	if s.sessions == nil {
		return []domain.ChatTurn{}, nil
	}
	turns, err := s.sessions.History(ctx, conversationID)
	if err != nil {
		return nil, apperr.NewInternalError(err)
	}
	return turns, nil
}

var suggestions = []string{
	"What are the largest nonprofits in Houston?",
	"Tell me about organizations helping with food insecurity",
	"Which nonprofits focus on education in Houston?",
	"Show me health-related nonprofits with their financial information",
	"What organizations work with homeless populations?",
	"Find nonprofits focused on arts and culture",
	"Which organizations have the highest revenue?",
	"Tell me about environmental nonprofits in Houston",
	"What nonprofits serve children and youth?",
	"Show me organizations working on community development",
}

// Suggestions returns sample questions for the chat UI.
func (s *Service) Suggestions() []string {
	return append([]string(nil), suggestions...)
}

// ToSources converts ranked results into cited sources, keeping rank order.
func ToSources(results []domain.RankedResult) []domain.Source {
	out := make([]domain.Source, len(results))
	for i, r := range results {
		out[i] = domain.Source{
			Name:           r.Record.Name,
			EIN:            r.Record.EIN,
			Category:       r.Record.NTEEDescription,
			Website:        r.Record.Website,
			RelevanceScore: math.Round(r.Score*1000) / 1000,
			Revenue:        r.Record.TotalRevenue,
			Rank:           r.Rank,
		}
	}
	return out
}
