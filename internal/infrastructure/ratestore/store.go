// Package ratestore holds the rate snapshot shared by request handlers.
package ratestore

import (
	"sync"
	"sync/atomic"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
)

// Store implements port.RateTableStore with an atomic pointer. Readers never
// block and never observe a partially built table.
type Store struct {
	current atomic.Pointer[model.RateTable]

	mu        sync.Mutex
	listeners []func(*model.RateTable)
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Current returns the published table, or nil before the first Publish.
func (s *Store) Current() *model.RateTable {
	return s.current.Load()
}

// Publish replaces the current table and notifies listeners. A nil table is
// ignored.
func (s *Store) Publish(table *model.RateTable) {
	if table == nil {
		return
	}
	s.current.Store(table)

	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(table)
	}
}

// OnPublish registers fn to run after every Publish, on the publishing
// goroutine.
func (s *Store) OnPublish(fn func(*model.RateTable)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Ready reports whether a table has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}
