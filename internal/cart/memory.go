package cart

import (
	"context"
	"sync"
)

// MemoryPersister keeps cart state in process memory. Development use; cart
// state does not survive a restart.
type MemoryPersister struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{
		states: make(map[string][]byte),
	}
}

func (m *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.states[key] = stored
	return nil
}

func (m *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.states[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryPersister) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, key)
	return nil
}

func (m *MemoryPersister) Close() error {
	return nil
}
