// File: client/optimistic.go
package client

import "sync"

// OptimisticValue tracks a locally echoed state change alongside the last
// authoritative value. The UI may show the pending value immediately after
// emitting an intent, but it is reconciled or rolled back when the
// authoritative broadcast arrives; optimistic and authoritative state never
// silently diverge.
type OptimisticValue[T comparable] struct {
	mu        sync.Mutex
	confirmed T
	pending   *T
}

// NewOptimisticValue starts from a confirmed initial value.
func NewOptimisticValue[T comparable](initial T) *OptimisticValue[T] {
	return &OptimisticValue[T]{confirmed: initial}
}

// Apply records an optimistic local echo. Call right before emitting the
// corresponding intent.
func (o *OptimisticValue[T]) Apply(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = &v
}

// Confirm applies the authoritative broadcast value and clears any pending
// echo, whether or not it matched.
func (o *OptimisticValue[T]) Confirm(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.confirmed = v
	o.pending = nil
}

// Rollback abandons the pending echo, falling back to the last confirmed
// value. Call when the server rejects the intent.
func (o *OptimisticValue[T]) Rollback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = nil
}

// Value returns what the UI should render right now: the pending echo if one
// is in flight, otherwise the confirmed value.
func (o *OptimisticValue[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending != nil {
		return *o.pending
	}
	return o.confirmed
}

// Pending reports whether an optimistic echo is awaiting confirmation.
func (o *OptimisticValue[T]) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending != nil
}
