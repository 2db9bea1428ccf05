// Package memory is an in-process store.Store, for tests and the CLI.
package memory

import (
	"context"
	"sync"

	"github.com/amp-labs/amp-fsm/store"
)

type key struct {
	class string
	id    string
}

// Store keeps records in a map.
type Store struct {
	mu      sync.RWMutex
	records map[key]store.Record
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[key]store.Record)}
}

func (s *Store) Save(_ context.Context, record store.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key{record.Class, record.ID}] = record

	return nil
}

func (s *Store) Load(_ context.Context, class, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key{class, id}]
	if !ok {
		return store.Record{}, store.ErrNotFound
	}

	return record, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
