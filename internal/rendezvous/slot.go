// Package rendezvous provides a one-shot handoff slot between the host
// capability that receives the module's result and the caller waiting for
// it.
package rendezvous

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrAlreadyDelivered is returned by Deliver when a value has already been
// placed in the slot.
var ErrAlreadyDelivered = errors.New("rendezvous slot already delivered")

// Slot is a single-use, single-value handoff point. Exactly one Deliver
// succeeds; Wait blocks until that delivery or until the context ends. The
// slot is buffered, so the producer never blocks even when the consumer has
// not started waiting yet.
//
// A slot serves one producer/consumer pair for one call. It is not reusable.
type Slot[T any] struct {
	ch        chan T
	delivered atomic.Bool
}

// New returns an empty slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Deliver places v into the slot. The first call succeeds without blocking;
// every later call returns ErrAlreadyDelivered and leaves the slot
// unchanged.
func (s *Slot[T]) Deliver(v T) error {
	if s.delivered.Swap(true) {
		return ErrAlreadyDelivered
	}
	s.ch <- v
	return nil
}

// Delivered reports whether a value has been placed in the slot.
func (s *Slot[T]) Delivered() bool {
	return s.delivered.Load()
}

// Wait blocks until a value is delivered or ctx ends. On cancellation the
// zero value and ctx.Err() are returned; a value delivered afterwards stays
// in the slot.
func (s *Slot[T]) Wait(ctx context.Context) (T, error) {
	select {
	case v := <-s.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
