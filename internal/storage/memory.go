package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Replica/internal/clock"
)

// MemoryStorage keeps archived documents in process. Retention is checked
// against a Clock, so expiry can be driven by a virtual clock in tests.
// Safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	docs  map[string]entry
	clock clock.Clock
}

type entry struct {
	doc      []byte
	deadline time.Time // zero keeps the entry forever
}

func (e entry) liveAt(now time.Time) bool {
	return e.deadline.IsZero() || now.Before(e.deadline)
}

// NewMemoryStorage creates an empty store checking retention on c.
func NewMemoryStorage(c clock.Clock) *MemoryStorage {
	return &MemoryStorage{docs: make(map[string]entry), clock: c}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.docs[key]
	s.mu.RUnlock()

	if !ok || !e.liveAt(s.clock.Now()) {
		return nil, nil
	}
	return slices.Clone(e.doc), nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value []byte, exp time.Duration) error {
	e := entry{doc: slices.Clone(value)}
	if e.doc == nil {
		e.doc = []byte{}
	}
	if exp > 0 {
		e.deadline = s.clock.Now().Add(exp)
	}

	s.mu.Lock()
	s.docs[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

// Sweep drops every expired document and returns how many it removed.
func (s *MemoryStorage) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, e := range s.docs {
		if !e.liveAt(now) {
			delete(s.docs, key)
			n++
		}
	}
	return n
}

// Len returns the number of documents still within retention.
func (s *MemoryStorage) Len() int {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.docs {
		if e.liveAt(now) {
			n++
		}
	}
	return n
}
