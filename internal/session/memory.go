// Package session stores chat turns per conversation.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

type conversation struct {
	turns   []domain.ChatTurn
	expires time.Time
}

// MemoryStore keeps conversations in process memory. Idle conversations
// expire after ttl; only the newest maxTurns turns are kept.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	maxTurns int
	now      func() time.Time
	convs    map[string]*conversation
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(ttl time.Duration, maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = 50
	}
	return &MemoryStore{
		ttl:      ttl,
		maxTurns: maxTurns,
		now:      time.Now,
		convs:    make(map[string]*conversation),
	}
}

// Append records a turn and refreshes the conversation's expiry.
func (s *MemoryStore) Append(_ context.Context, turn domain.ChatTurn) error {
	if turn.ConversationID == "" {
		return apperr.NewValidationError("conversation id is required", "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)
	c, ok := s.convs[turn.ConversationID]
	if !ok {
		c = &conversation{}
		s.convs[turn.ConversationID] = c
	}
	c.turns = append(c.turns, turn)
	if len(c.turns) > s.maxTurns {
		c.turns = append([]domain.ChatTurn(nil), c.turns[len(c.turns)-s.maxTurns:]...)
	}
	c.expires = now.Add(s.ttl)
	return nil
}

// History returns a conversation's turns oldest first. Unknown or expired
// conversations have no turns.
func (s *MemoryStore) History(_ context.Context, conversationID string) ([]domain.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convs[conversationID]
	if !ok {
		return []domain.ChatTurn{}, nil
	}
	if s.ttl > 0 && !s.now().Before(c.expires) {
		delete(s.convs, conversationID)
		return []domain.ChatTurn{}, nil
	}
	return append([]domain.ChatTurn(nil), c.turns...), nil
}

func (s *MemoryStore) evictExpired(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, c := range s.convs {
		if !now.Before(c.expires) {
			delete(s.convs, id)
		}
	}
}
