package gate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSessionToken is returned when no token is cached for a session.
var ErrNoSessionToken = errors.New("no token cached for session")

// SessionStore remembers a verified admin token for the life of a browser
// session so internal requests (form posts, AJAX) do not need the token in
// the URL.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string) error
	Invalidate(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "gate:session:"

// RedisSessionStore caches verified tokens in Redis with a bounded TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds a store on top of an existing client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", ErrNoSessionToken
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, token, s.ttl).Err()
}

func (s *RedisSessionStore) Invalidate(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// MemorySessionStore is a process-local fallback used in tests and when Redis
// is unavailable. Entries expire lazily.
type MemorySessionStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// NewMemorySessionStore builds an in-memory store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &MemorySessionStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrNoSessionToken
	}
	return entry.token, nil
}

func (s *MemorySessionStore) Set(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{token: token, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Invalidate(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
