package session

import (
	"context"
	"sync"
	"time"
)

// Store persists sessions. Update applies fn to the stored session
// atomically with respect to other Updates of the same session.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

type memoryEntry struct {
	sess    *Session
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Sessions expire ttl after
// their last write.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty store. A non-positive ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) put(s *Session) {
	entry := memoryEntry{sess: s.Clone()}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.sessions[s.ID] = entry
}

// lookup returns the live entry for id, dropping it when expired.
// Callers hold mu.
func (m *MemoryStore) lookup(id string) (*Session, bool) {
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		delete(m.sessions, id)
		return nil, false
	}
	return entry.sess, true
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	s := New()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(s)
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	working := s.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	m.put(working)
	return working.Clone(), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
