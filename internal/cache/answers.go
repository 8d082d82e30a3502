// Package cache holds the optional Redis-backed answer cache. It sits in the
// server layer, outside the stateless pipeline: identical questions within
// the TTL are served without spending two completion calls.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/premstats/premstats/internal/pipeline"
)

const answerPrefix = "answers:"

// ErrMiss is returned when no cached answer exists for the question.
var ErrMiss = errors.New("answer not cached")

// AnswerCache stores synthesized answers keyed by normalized question text.
type AnswerCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New creates an answer cache. TTL must be positive.
func New(client redis.Cmdable, ttl time.Duration) (*AnswerCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	return &AnswerCache{client: client, ttl: ttl}, nil
}

// Key normalizes a question to a cache key: case and surrounding whitespace
// are ignored, the rest is hashed.
func Key(question string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(question), " "))
	sum := sha256.Sum256([]byte(norm))
	return answerPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached answer for the question, or ErrMiss.
func (c *AnswerCache) Get(ctx context.Context, question string) (*pipeline.Answer, error) {
	val, err := c.client.Get(ctx, Key(question)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get answer: %w", err)
	}
	var a pipeline.Answer
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		return nil, fmt.Errorf("unmarshal answer: %w", err)
	}
	return &a, nil
}

// Set stores the answer under the question's key for the configured TTL.
func (c *AnswerCache) Set(ctx context.Context, question string, a *pipeline.Answer) error {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	if err := c.client.Set(ctx, Key(question), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("set answer: %w", err)
	}
	return nil
}
