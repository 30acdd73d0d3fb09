package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using an in-memory map. Expired entries are
// dropped on access and on every write.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	resp      *Response
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Get retrieves a cached response.
func (s *MemoryStore) Get(ctx context.Context, key string) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(item.expiresAt) {
		delete(s.items, key)
		return nil, ErrNotFound
	}
	return item.resp, nil
}

// Set stores a response with TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, resp *Response, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, item := range s.items {
		if !now.Before(item.expiresAt) {
			delete(s.items, k)
		}
	}
	s.items[key] = memoryItem{resp: resp, expiresAt: now.Add(ttl)}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close drops every entry.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]memoryItem)
	return nil
}
