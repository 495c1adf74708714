package resource

import (
	"context"
	"sync"
)

// Fetcher loads the full, ordered list for a store.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// StoreState is a point-in-time copy of a Store.
type StoreState[T any] struct {
	Items   []T
	Loading bool
	Err     error
}

// Store owns the in-memory list of one collection for one page. Refresh is
// the only writer of the list.
type Store[T any] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	items    []T
	inFlight int
	fetched  bool
	err      error
}

// NewStore returns an empty store in the loading state; the first Refresh populates it.
func NewStore[T any](fetch Fetcher[T]) *Store[T] {
	return &Store[T]{fetch: fetch, items: []T{}}
}

// Refresh reloads the list. On failure the previous list is kept and the
// error is recorded. Overlapping calls are allowed; the last one to complete
// wins and loading stays true until all of them return.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()

	items, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	s.fetched = true
	if err != nil {
		s.err = err
		return err
	}
	if items == nil {
		items = []T{}
	}
	s.items = items
	s.err = nil
	return nil
}

// Items returns a copy of the current list.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Loading is true before the first fetch completes and while any refresh is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingLocked()
}

// Err returns the error of the last completed refresh, if it failed.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Fetched reports whether any refresh has completed.
func (s *Store[T]) Fetched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched
}

// State returns a consistent snapshot of list, loading flag and error.
func (s *Store[T]) State() StoreState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return StoreState[T]{Items: items, Loading: s.loadingLocked(), Err: s.err}
}

func (s *Store[T]) loadingLocked() bool {
	return s.inFlight > 0 || !s.fetched
}
