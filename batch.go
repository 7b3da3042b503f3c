package dxbox

import "github.com/fabfog/dxbox/internal"

// Scope is a detached batch scope on one entity; see Notifier.Open.
type Scope = internal.Scope

// Batched runs fn inside a batch scope on n and returns fn's result.
func Batched[T any](n *Notifier, fn func() (T, error)) (T, error) {
	var result T

	err := n.Batch(func() error {
		var err error
		result, err = fn()
		return err
	})

	return result, err
}

// Atomic runs fn with every entity that reports on the calling goroutine
// enrolled in a batch, so one logical operation touching several entities
// produces one delivery per entity. Entities flush independently when fn
// settles; batching stays per-entity.
func Atomic(fn func() error) error {
	return internal.Atomic(fn)
}
