package utils

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionUser is the identity snapshot held for an authenticated session.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// SessionStore maps opaque cookie tokens to authenticated users. Tokens are
// independent of each other; concurrent access needs no cross-session
// coordination.
type SessionStore interface {
	Create(user SessionUser, ttl time.Duration) (string, error)
	Get(token string) (SessionUser, bool)
	// Destroy is idempotent: destroying an absent session is not an error.
	Destroy(token string)
}

const sessionKeyPrefix = "session:"

// redisSessionStore keeps sessions in Redis so they survive restarts and are
// shared between instances. Entries expire with the cookie TTL.
type redisSessionStore struct{}

// NewSessionStore returns a Redis backed store when Redis is reachable and
// falls back to an in-process map otherwise (single-instance only).
func NewSessionStore() SessionStore {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil && rc.Ping(ctx).Err() == nil {
		return &redisSessionStore{}
	}
	if Sugar != nil {
		Sugar.Warn("redis unreachable, using in-memory session store")
	}
	return NewMemorySessionStore()
}

func (s *redisSessionStore) Create(user SessionUser, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := GetRedis().Set(ctx, sessionKeyPrefix+token, b, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisSessionStore) Get(token string) (SessionUser, bool) {
	if token == "" {
		return SessionUser{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := GetRedis().Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		return SessionUser{}, false
	}
	var user SessionUser
	if err := json.Unmarshal(b, &user); err != nil {
		return SessionUser{}, false
	}
	return user, true
}

func (s *redisSessionStore) Destroy(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = GetRedis().Del(ctx, sessionKeyPrefix+token).Err()
}

type memorySessionEntry struct {
	user      SessionUser
	expiresAt time.Time
}

// MemorySessionStore is the in-process fallback, also used by tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySessionEntry
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memorySessionEntry{}}
}

func (s *MemorySessionStore) Create(user SessionUser, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = memorySessionEntry{user: user, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessionStore) Get(token string) (SessionUser, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return SessionUser{}, false
	}
	if time.Now().After(entry.expiresAt) {
		s.Destroy(token)
		return SessionUser{}, false
	}
	return entry.user, true
}

func (s *MemorySessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
