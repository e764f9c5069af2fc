package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

const keyPrefix = "rag:session:"

// RedisOptions holds connection details for the redis backend.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient opens a pooled redis client.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// RedisStore keeps each conversation as a redis list of JSON-encoded turns.
type RedisStore struct {
	client   redis.Cmdable
	ttl      time.Duration
	maxTurns int
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.Cmdable, ttl time.Duration, maxTurns int) *RedisStore {
	if maxTurns <= 0 {
		maxTurns = 50
	}
	return &RedisStore{client: client, ttl: ttl, maxTurns: maxTurns}
}

// Ping tests the redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Append pushes a turn, trims the list to the newest maxTurns and refreshes the TTL
// in one transaction.
func (s *RedisStore) Append(ctx context.Context, turn domain.ChatTurn) error {
	if turn.ConversationID == "" {
		return apperr.NewValidationError("conversation id is required", "")
	}
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	key := keyPrefix + turn.ConversationID
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append turn to %s: %w", key, err)
	}
	return nil
}

// History returns a conversation's turns oldest first.
func (s *RedisStore) History(ctx context.Context, conversationID string) ([]domain.ChatTurn, error) {
	key := keyPrefix + conversationID
	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", key, err)
	}
	turns := make([]domain.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var turn domain.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn in %s: %w", key, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
