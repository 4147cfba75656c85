package storage

import (
	"fmt"
	"sort"
)

// MemoryStore is a map-backed Provider. Nothing survives the process; it
// exists for tests and dry runs.
type MemoryStore struct {
	entries map[string][]byte

	// FailWrites makes every Set and Delete fail, to exercise callers'
	// handling of storage errors.
	FailWrites bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) ([]byte, error) {
	v, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if s.FailWrites {
		return fmt.Errorf("memory store: writes disabled")
	}
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if s.FailWrites {
		return fmt.Errorf("memory store: writes disabled")
	}
	if _, ok := s.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}
