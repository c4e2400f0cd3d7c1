package storage

import (
	"ecotracker/internal/models"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps records for the process lifetime only.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.records[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.records, prefix), nil
}

func sortedKeys[V any](records map[string]V, prefix string) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
