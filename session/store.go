package session

import (
	"sync"

	"github.com/onion-http/onion/dict"
)

// Store is a pluggable session backend. Save with a nil data removes
// the session, mirroring the original library's save(id, NULL)
// convention rather than exposing a separate delete call on the wire
// contract.
type Store interface {
	Get(id string) (*dict.Dict, bool)
	Save(id string, data *dict.Dict) error
	Remove(id string) error
	Free() error
}

// MemoryStore is the default in-process backend: a dict of dicts
// guarded by a mutex, directly modeled on the original library's
// sessions_mem backend.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*dict.Dict
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]*dict.Dict{}}
}

// Get returns a hard-duplicated snapshot of the stored session so
// callers can mutate it freely without racing other goroutines
// touching the same id.
func (s *MemoryStore) Get(id string) (*dict.Dict, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return d.HardDup(), true
}

// Save stores a hard-duplicated snapshot of data under id, or removes
// the entry entirely when data is nil.
func (s *MemoryStore) Save(id string, data *dict.Dict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data == nil {
		delete(s.data, id)
		return nil
	}
	s.data[id] = data.HardDup()
	return nil
}

// Remove deletes the session with the given id, if any.
func (s *MemoryStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// Free releases all stored sessions.
func (s *MemoryStore) Free() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]*dict.Dict{}
	return nil
}

// Count returns the number of live sessions, mainly for tests and
// diagnostics.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
