package revocation

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-node deployments.
// It honors the same first-writer-wins Add contract as [RedisStore].
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Add describes the add operation and its observable behavior.
//
// Add may return an error when input validation, dependency calls, or security checks fail.
// Add does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Add(_ context.Context, entry Entry, ttl time.Duration) (bool, error) {
	if entry.TokenID == "" {
		return false, errors.New("revocation entry missing token id")
	}
	if ttl <= 0 {
		return false, ErrInvalidTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeLocked(now)

	if existing, ok := s.entries[entry.TokenID]; ok && now.Before(existing.expiresAt) {
		return false, nil
	}

	s.entries[entry.TokenID] = memoryEntry{
		entry:     entry,
		expiresAt: now.Add(ttl),
	}
	return true, nil
}

// Contains describes the contains operation and its observable behavior.
//
// Contains may return an error when input validation, dependency calls, or security checks fail.
// Contains does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Contains(_ context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.entries[tokenID]
	if !ok {
		return false, nil
	}
	return s.now().Before(existing.expiresAt), nil
}

// Len reports the number of live entries. Expired entries are not counted.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for _, existing := range s.entries {
		if now.Before(existing.expiresAt) {
			count++
		}
	}
	return count
}

// Entries stay bounded by token lifetimes, so a sweep on every write is
// acceptable for the store's intended scale.
func (s *MemoryStore) purgeLocked(now time.Time) {
	for id, existing := range s.entries {
		if !now.Before(existing.expiresAt) {
			delete(s.entries, id)
		}
	}
}
