package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"emotivision/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the active-session registry. A token absent
// from the registry is treated as logged out even if its JWT is still valid.
type SessionStoreInterface interface {
	StoreSession(ctx context.Context, tokenID, username string, sessionID uint, loginTime time.Time, ttl time.Duration) error
	GetSession(ctx context.Context, tokenID string) (username string, sessionID uint, loginTime time.Time, err error)
	DeleteSession(ctx context.Context, tokenID string) error
}

// SessionStore keeps active session tokens in Redis.
type SessionStore struct {
	cache *cache.Client
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

type sessionEntry struct {
	Username  string    `json:"username"`
	SessionID uint      `json:"session_id"`
	LoginTime time.Time `json:"login_time"`
}

// StoreSession registers an active session token with TTL.
func (s *SessionStore) StoreSession(ctx context.Context, tokenID, username string, sessionID uint, loginTime time.Time, ttl time.Duration) error {
	payload, err := json.Marshal(sessionEntry{
		Username:  username,
		SessionID: sessionID,
		LoginTime: loginTime,
	})
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+tokenID, payload, ttl)
}

// GetSession retrieves active session data for a token.
func (s *SessionStore) GetSession(ctx context.Context, tokenID string) (string, uint, time.Time, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+tokenID)
	if err != nil || data == nil {
		return "", 0, time.Time{}, fmt.Errorf("session not found")
	}

	var entry sessionEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", 0, time.Time{}, fmt.Errorf("unmarshal session data: %w", err)
	}
	return entry.Username, entry.SessionID, entry.LoginTime, nil
}

// DeleteSession revokes an active session token.
func (s *SessionStore) DeleteSession(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+tokenID)
}
