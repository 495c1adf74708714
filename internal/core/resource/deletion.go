package resource

import "sync"

// DeleteState is what the confirmation modal renders.
type DeleteState[T any] struct {
	Open     bool `json:"open"`
	Target   *T   `json:"target,omitempty"`
	Deleting bool `json:"deleting"`
}

// DeleteGuard is the two-state machine in front of every delete call:
// idle, or pending with exactly one captured target.
type DeleteGuard[T any] struct {
	mu       sync.Mutex
	target   *T
	deleting bool
}

// NewDeleteGuard returns an idle guard.
func NewDeleteGuard[T any]() *DeleteGuard[T] {
	return &DeleteGuard[T]{}
}

// Request captures target, replacing any previous unconfirmed one.
func (g *DeleteGuard[T]) Request(target T) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleting {
		return ErrDeleteInProgress
	}
	g.target = &target
	return nil
}

// Cancel returns to idle without side effects.
func (g *DeleteGuard[T]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleting {
		return
	}
	g.target = nil
}

// State returns a copy of the guard.
func (g *DeleteGuard[T]) State() DeleteState[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := DeleteState[T]{Open: g.target != nil, Deleting: g.deleting}
	if g.target != nil {
		t := *g.target
		st.Target = &t
	}
	return st
}

// begin hands out the captured target for a single delete call.
func (g *DeleteGuard[T]) begin() (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var zero T
	if g.target == nil {
		return zero, ErrNoDeleteTarget
	}
	if g.deleting {
		return zero, ErrDeleteInProgress
	}
	g.deleting = true
	return *g.target, nil
}

// finish returns to idle whatever the outcome; a target is single-use.
func (g *DeleteGuard[T]) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleting = false
	g.target = nil
}
