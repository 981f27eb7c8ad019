package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound se devuelve cuando una clave no existe o ya expiro.
var ErrKeyNotFound = errors.New("session store: key not found")

// Store guarda estado efimero con TTL: sesiones activas y nonces de OAuth.
// GetDel lee y borra en un solo paso, para claves de un solo uso.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

// NewMemoryStore crea un Store en memoria, util para desarrollo y tests.
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]memoryEntry)}
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryEntry{value: value, expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, key)
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *memoryStore) GetDel(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	delete(s.items, key)
	if time.Now().UTC().After(entry.expiresAt) {
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore crea un Store respaldado por Redis con prefijo de namespace.
func NewRedisStore(client *redis.Client, prefix string) Store {
	if client == nil {
		return nil
	}
	if prefix == "" {
		prefix = "bookmarks:"
	}
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

func (s *redisStore) GetDel(ctx context.Context, key string) (string, error) {
	val, err := s.client.GetDel(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
