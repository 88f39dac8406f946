package scanner

import (
	"context"
	"sync"
)

// MemorySeenStore es un set de IDs procesados en memoria. Se pierde al reiniciar.
type MemorySeenStore struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewMemorySeenStore crea un set vacío.
func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{ids: make(map[string]struct{})}
}

// Seen implementa ports.SeenStore.
func (m *MemorySeenStore) Seen(_ context.Context, eventID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[eventID]
	return ok, nil
}

// Mark implementa ports.SeenStore.
func (m *MemorySeenStore) Mark(_ context.Context, eventIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range eventIDs {
		m.ids[id] = struct{}{}
	}
	return nil
}

// Len devuelve cuántos eventos se han marcado.
func (m *MemorySeenStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}
