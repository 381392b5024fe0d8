package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a map-backed Store used in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	value := make([]byte, len(raw))
	copy(value, raw)
	return value, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make([]byte, len(value))
	copy(raw, value)
	s.data[key] = raw
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
