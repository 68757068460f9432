package ledger

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time // zero value means no expiry
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (e memEntry) remaining(now time.Time) time.Duration {
	if e.expiresAt.IsZero() {
		return NoExpiry
	}
	if d := e.expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// MemStore is an in-process, mutex-guarded Store. It backs the
// instance tier (single-process, never shared across hosts — see
// SPEC_FULL.md §10) and doubles as a lightweight stand-in for the other
// tiers in unit tests that don't need Postgres/Redis.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]map[string]memEntry
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]map[string]memEntry)}
}

func (s *MemStore) Get(_ context.Context, namespace, key string) ([]byte, time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[namespace]
	if !ok {
		return nil, 0, false, nil
	}
	entry, ok := bucket[key]
	if !ok {
		return nil, 0, false, nil
	}

	now := time.Now()
	if entry.expired(now) {
		delete(bucket, key)
		return nil, 0, false, nil
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, entry.remaining(now), true, nil
}

func (s *MemStore) Set(_ context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[namespace]
	if !ok {
		bucket = make(map[string]memEntry)
		s.entries[namespace] = bucket
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	var expiresAt time.Time
	if ttl != NoExpiry {
		expiresAt = time.Now().Add(ttl)
	}

	bucket[key] = memEntry{value: stored, expiresAt: expiresAt}
	return nil
}

func (s *MemStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.entries[namespace]; ok {
		delete(bucket, key)
	}
	return nil
}

func (s *MemStore) ExtendTTL(_ context.Context, namespace, key string, floor, extend time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[namespace]
	if !ok {
		return nil
	}
	entry, ok := bucket[key]
	if !ok {
		return nil
	}

	now := time.Now()
	if entry.expired(now) {
		delete(bucket, key)
		return nil
	}

	if entry.remaining(now) < floor {
		entry.expiresAt = now.Add(extend)
		bucket[key] = entry
	}
	return nil
}

// Sweep deletes every expired entry across all namespaces, for
// operational hygiene — TTL semantics themselves are always enforced
// lazily on read, per SPEC_FULL.md §9. (cmd/cleanup sweeps the SQL
// tables directly and does not call this.)
func (s *MemStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	swept := 0
	for _, bucket := range s.entries {
		for key, entry := range bucket {
			if entry.expired(now) {
				delete(bucket, key)
				swept++
			}
		}
	}
	return swept
}
