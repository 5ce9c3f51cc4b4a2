package client

import (
	"context"
	"errors"
	"sync"
)

// Phase is where an optimistic value is in its current mutation.
type Phase int

const (
	Idle Phase = iota
	Pending
	Committed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	default:
		return "idle"
	}
}

// ErrMutationPending is returned when a mutation starts while another one on
// the same value has not settled.
var ErrMutationPending = errors.New("client: mutation already pending")

// Optimistic holds a value that is changed speculatively and then either
// confirmed by the server or restored. T is copied by value into the
// snapshot, so it must not share mutable state with the live value.
type Optimistic[T any] struct {
	mu       sync.Mutex
	value    T
	snapshot T
	phase    Phase
}

// NewOptimistic returns an idle value.
func NewOptimistic[T any](initial T) *Optimistic[T] {
	return &Optimistic[T]{value: initial}
}

// Value returns the current value, speculative while Pending.
func (o *Optimistic[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Phase returns the state of the most recent mutation.
func (o *Optimistic[T]) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Apply replaces the value with speculate(current) and calls confirm with
// that speculative value. On success the value becomes confirm's result;
// on error the pre-mutation value is restored and the error returned.
func (o *Optimistic[T]) Apply(ctx context.Context, speculate func(T) T, confirm func(ctx context.Context, speculative T) (T, error)) (T, error) {
	o.mu.Lock()
	if o.phase == Pending {
		v := o.value
		o.mu.Unlock()
		return v, ErrMutationPending
	}
	o.snapshot = o.value
	o.value = speculate(o.value)
	o.phase = Pending
	speculative := o.value
	o.mu.Unlock()

	confirmed, err := confirm(ctx, speculative)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.value = o.snapshot
		o.phase = RolledBack
		return o.value, err
	}
	o.value = confirmed
	o.phase = Committed
	return o.value, nil
}
