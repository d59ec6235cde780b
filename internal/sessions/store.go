// Package sessions holds ephemeral tutoring session state. Sessions are not
// durable records; they expire on inactivity and are discarded when closed.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for sessions that never existed or have expired.
var ErrNotFound = errors.New("session not found")

// Store persists session state between turns. Put refreshes the idle TTL on
// every call, so an active conversation never expires mid-exchange.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.TutorSession, error)
	Put(ctx context.Context, session *models.TutorSession) error
	Delete(ctx context.Context, sessionID string) error
}

const keyPrefix = "tutor:session:"

// DefaultTTL is the idle expiry applied when no TTL is configured.
const DefaultTTL = 2 * time.Hour

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*models.TutorSession, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session store get: %w", err)
	}

	var session models.TutorSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session store decode: %w", err)
	}
	return &session, nil
}

func (s *redisStore) Put(ctx context.Context, session *models.TutorSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session store encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+session.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store put: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session store delete: %w", err)
	}
	return nil
}
