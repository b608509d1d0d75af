package audiocache

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]Entry)}
}

func (m *MemoryStore) Probe(_ context.Context, key Key) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	e.Audio = append([]byte(nil), e.Audio...)
	return &e, true, nil
}

func (m *MemoryStore) InsertIfAbsent(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.Key]; ok {
		return nil
	}
	entry.Audio = append([]byte(nil), entry.Audio...)
	m.entries[entry.Key] = entry
	return nil
}

// Len returns the number of cached entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
