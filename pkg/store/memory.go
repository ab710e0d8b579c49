package store

import (
	"context"
	"sync"
)

// MemoryStore keeps the latest snapshot per user in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	latest map[string]Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{latest: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, s Snapshot) error {
	user := normalizeUser(s.User)
	s.User = user

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.latest[user]; ok && cur.TakenAt.After(s.TakenAt) {
		return nil
	}
	m.latest[user] = s
	return nil
}

func (m *MemoryStore) Latest(_ context.Context, user string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.latest[normalizeUser(user)]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
