// Package runtime provides the in-memory key/value store that holds the
// currently effective configuration values. It replaces ambient process
// environment mutation: the vault writes into it on every save and reads it
// first on lookups, and the application root owns the single instance.
package runtime

import (
	"sort"
	"strings"
	"sync"
)

// Store is a concurrency-safe string key/value map.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// SeedFromEnviron populates the store from "KEY=VALUE" pairs as returned by
// os.Environ. Existing entries are overwritten. Malformed pairs are skipped.
func (s *Store) SeedFromEnviron(environ []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pair := range environ {
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}
		s.values[pair[:idx]] = pair[idx+1:]
	}
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current contents.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
