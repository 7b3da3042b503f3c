package dxbox

import "github.com/fabfog/dxbox/internal"

// Observed attaches a fresh notification capability to a value of a base type
// the integrator does not own and cannot make embed Notifier.
type Observed[T any] struct {
	Notifier

	base T
}

// Observe wraps base with its own notifier and binds the dependency graph
// declared for T. Wrapping instances of the same base type twice produces
// independent, non-interfering capabilities.
func Observe[T any](base T) *Observed[T] {
	o := &Observed[T]{base: base}
	o.core().SetGraph(internal.GraphFor(typeKey[T]()))

	return o
}

// Base returns the wrapped value. For pointer bases the wrapper and the
// original share state, preserving the base type's behavior.
func (o *Observed[T]) Base() T {
	return o.base
}

// Compose turns a constructor for T into a constructor for observed T,
// forwarding construction unchanged. Close over constructor arguments:
//
//	newAccount := dxbox.Compose(func() *account { return newAccount(owner) })
//
// Each produced value carries its own registry.
func Compose[T any](ctor func() T) func() *Observed[T] {
	return func() *Observed[T] {
		return Observe(ctor())
	}
}
