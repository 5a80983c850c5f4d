// Package adminauth issues and validates admin sessions. A login mints
// an HMAC-signed JWT whose jti is also stored in Redis with a matching
// TTL, so a logout (or a Redis flush) revokes the token before its
// expiry.
package adminauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound marks a token whose jti is absent from Redis,
// either expired or explicitly revoked.
var ErrSessionNotFound = errors.New("adminauth: session not found")

// SessionStore tracks live admin session IDs in Redis.
type SessionStore struct {
	redis *redis.Client
}

// NewSessionStore creates a session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	if client == nil {
		panic("adminauth: redis client cannot be nil")
	}
	return &SessionStore{redis: client}
}

// Create records a session ID with the given TTL.
func (s *SessionStore) Create(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, sessionKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("adminauth: failed to persist session: %w", err)
	}
	return nil
}

// Validate reports whether the session ID is still live.
func (s *SessionStore) Validate(ctx context.Context, sessionID string) error {
	if err := s.redis.Get(ctx, sessionKey(sessionID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("adminauth: failed to check session: %w", err)
	}
	return nil
}

// Delete revokes a session ID. Deleting an unknown ID is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("adminauth: failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("admin_session:%s", id)
}
