package dxbox

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fabfog/dxbox/internal"
)

// Observer receives the names of the facets that changed in one delivery:
// deduplicated, expanded through the declared dependencies, and sorted. Treat
// them as names of state to re-evaluate, never as values.
type Observer func(changed []string)

// Notifier gives an entity the capability to notify observers of facet
// changes. The zero value is ready to use, so owned types embed it directly:
//
//	type Account struct {
//		dxbox.Notifier
//		balance int
//	}
//
// Types the integrator does not own get the same capability through Observe or
// Compose. Each Notifier owns its registry; two entities never interfere.
type Notifier struct {
	once sync.Once
	reg  *internal.Registry
}

func (n *Notifier) core() *internal.Registry {
	n.once.Do(func() { n.reg = internal.NewRegistry() })
	return n.reg
}

// Subscription identifies one registered observer.
type Subscription struct {
	reg *internal.Registry
	id  uuid.UUID
}

// ID returns the subscription's unique id.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Cancel removes the observer. Cancelling twice is a no-op.
func (s *Subscription) Cancel() { s.reg.Unsubscribe(s.id) }

// Subscribe registers fn to receive deliveries. Subscribing during a delivery
// affects only subsequent deliveries.
func (n *Notifier) Subscribe(fn Observer) *Subscription {
	reg := n.core()
	return &Subscription{reg: reg, id: reg.Subscribe(fn)}
}

// Unsubscribe cancels the given subscription.
func (n *Notifier) Unsubscribe(s *Subscription) {
	if s != nil {
		s.Cancel()
	}
}

// Report records that the named facets may have changed. Outside a batch the
// resolved set is delivered immediately; inside one it merges into the pending
// set and delivers once, when the outermost scope closes.
func (n *Notifier) Report(facets ...string) {
	n.core().Report(facets...)
}

// Batch runs fn with a batch scope open on this entity. Everything reported in
// fn's call graph delivers once, when the outermost scope closes — on error
// and panic too, so facets reported before a failure still flush.
func (n *Notifier) Batch(fn func() error) error {
	return n.core().Batch(fn)
}

// Open starts a detached batch scope for work that suspends across
// goroutines. The entity's depth counter, not the call stack, decides when the
// pending set flushes; close the scope when the work settles.
func (n *Notifier) Open() *Scope {
	return n.core().OpenScope()
}

// Pending reports whether a batch scope is currently open on this entity.
func (n *Notifier) Pending() bool {
	return n.core().Pending()
}

// Subscribers returns the number of registered observers.
func (n *Notifier) Subscribers() int {
	return n.core().SubscriberCount()
}

// OnDeliveryPanic registers a handler for panics recovered from observers
// during delivery. Without a handler the first panic propagates after every
// observer has run.
func (n *Notifier) OnDeliveryPanic(fn func(any)) {
	n.core().OnDeliveryPanic(fn)
}

// Mark wraps fn so the given facets are reported exactly once, after fn
// returns without error. On error or panic the wrapper reports nothing.
func (n *Notifier) Mark(fn func() error, facets ...string) func() error {
	return internal.Marked(n.core(), facets, fn)
}
