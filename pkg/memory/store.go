// Package memory provides an in-process key-value store.
//
// It satisfies the same Get/Set/Update/Keys contract as the SQLite-backed store
// and is what tests inject in place of a real database.
package memory

import (
	"context"
	"sort"
	"sync"
)

// Store is a mutex-guarded map of string keys to string values.
// The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	entries map[string]string

	// failGet and failSet inject errors for tests of caller error paths.
	failGet error
	failSet error
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failGet != nil {
		return "", false, s.failGet
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet != nil {
		return s.failSet
	}
	s.entries[key] = value
	return nil
}

// Update runs fn against the current value and stores the result.
// The lock is held for the whole cycle. If fn fails nothing is written.
func (s *Store) Update(_ context.Context, key string, fn func(current string, ok bool) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failGet != nil {
		return s.failGet
	}
	current, ok := s.entries[key]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if s.failSet != nil {
		return s.failSet
	}
	s.entries[key] = next
	return nil
}

// Keys lists stored keys in lexical order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failGet != nil {
		return nil, s.failGet
	}
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// FailGets makes subsequent reads return err. Pass nil to clear.
func (s *Store) FailGets(err error) {
	s.mu.Lock()
	s.failGet = err
	s.mu.Unlock()
}

// FailSets makes subsequent writes return err. Pass nil to clear.
func (s *Store) FailSets(err error) {
	s.mu.Lock()
	s.failSet = err
	s.mu.Unlock()
}
