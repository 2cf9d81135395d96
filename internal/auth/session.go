package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionTTL = 24 * time.Hour

// SessionManager keeps the session-id -> user-id mapping in redis.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionManager(client *redis.Client) *SessionManager {
	return &SessionManager{
		client: client,
		ttl:    sessionTTL,
	}
}

func (s *SessionManager) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(sessionID), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session failed: %w", err)
	}
	return sessionID, nil
}

func (s *SessionManager) UserID(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get session failed: %w", err)
	}
	return userID, nil
}

func (s *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
