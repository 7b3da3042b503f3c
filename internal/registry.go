package internal

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/petermattis/goid"
)

// Registry is the notification state owned by one entity: its observers, its
// pending-change set, and its batch depth. All mutation goes through the
// documented operations; nothing external touches the fields.
type Registry struct {
	mu sync.Mutex

	subs  []*subscriber
	graph *Graph

	// while depth > 0 reports accumulate in pending instead of delivering
	depth   int
	pending Facets

	// id of the goroutine currently delivering, 0 when idle.
	// reports arriving mid-delivery land in queued and flush as a follow-up,
	// so deliveries on one entity never interleave.
	delivering int64
	queued     Facets

	// delivery panic handlers
	catchers []func(any)
}

type subscriber struct {
	id uuid.UUID
	fn func([]string)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SetGraph attaches the dependency graph consulted before every delivery.
func (r *Registry) SetGraph(g *Graph) {
	r.mu.Lock()
	r.graph = g
	r.mu.Unlock()
}

// Subscribe registers fn to receive changed-facet deliveries and returns the
// id to unsubscribe with. Subscribing during a delivery only affects
// subsequent deliveries.
func (r *Registry) Subscribe(fn func([]string)) uuid.UUID {
	id := uuid.Must(uuid.NewV7())

	r.mu.Lock()
	r.subs = append(r.subs, &subscriber{id: id, fn: fn})
	r.mu.Unlock()

	return id
}

// Unsubscribe removes the subscriber with the given id. Unknown ids are a no-op.
func (r *Registry) Unsubscribe(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := slices.IndexFunc(r.subs, func(s *subscriber) bool { return s.id == id }); i != -1 {
		r.subs = slices.Delete(r.subs, i, i+1)
	}
}

func (r *Registry) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subs)
}

// OnDeliveryPanic registers a handler for panics recovered from observers.
// Without a handler the first recovered panic propagates after every observer
// in the delivery has run.
func (r *Registry) OnDeliveryPanic(fn func(any)) {
	r.mu.Lock()
	r.catchers = append(r.catchers, fn)
	r.mu.Unlock()
}

// Pending reports whether a batch scope is currently open.
func (r *Registry) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.depth > 0
}

// Report records that the named facets may have changed. Reports merge with set
// union semantics: inside a batch (or mid-delivery) they accumulate and the
// resolved set delivers once, expanded through the dependency graph.
func (r *Registry) Report(names ...string) {
	if len(names) == 0 {
		return
	}

	enrollAmbient(r)

	r.mu.Lock()

	if r.depth > 0 {
		if r.pending == nil {
			r.pending = NewFacets()
		}
		r.pending.Add(names...)
		r.mu.Unlock()
		return
	}

	if r.delivering != 0 {
		if r.queued == nil {
			r.queued = NewFacets()
		}
		r.queued.Add(names...)
		r.mu.Unlock()
		return
	}

	r.flush(NewFacets(names...))
}

// Open increments the batch depth; reports defer until the matching Close.
func (r *Registry) Open() {
	r.mu.Lock()
	r.depth++
	r.mu.Unlock()
}

// Close decrements the batch depth. When it reaches zero the pending set is
// delivered exactly once and cleared.
func (r *Registry) Close() {
	r.mu.Lock()

	if r.depth == 0 {
		r.mu.Unlock()
		return
	}

	r.depth--
	if r.depth > 0 {
		r.mu.Unlock()
		return
	}

	set := r.pending
	r.pending = nil

	if set.Empty() {
		r.mu.Unlock()
		return
	}

	if r.delivering != 0 {
		// a delivery is already running; it will pick these up as a follow-up
		if r.queued == nil {
			r.queued = NewFacets()
		}
		r.queued.Union(set)
		r.mu.Unlock()
		return
	}

	r.flush(set)
}

// flush expands and delivers set, then any follow-up reports queued while the
// observers ran. The caller must hold r.mu; flush releases it before returning.
// Each round snapshots the subscriber list, so observers added or removed
// mid-delivery are not invoked inconsistently.
func (r *Registry) flush(set Facets) {
	for !set.Empty() {
		if r.graph != nil {
			set = r.graph.Expand(set)
		}

		snapshot := slices.Clone(r.subs)
		catchers := slices.Clone(r.catchers)
		r.delivering = goid.Get()
		r.mu.Unlock()

		names := set.Names()
		logger.Debug().Strs("facets", names).Int("observers", len(snapshot)).Msg("dxbox: delivering")

		var caught []any
		for _, sub := range snapshot {
			if p := deliver(sub.fn, names); p != nil {
				logger.Error().Interface("panic", p).Strs("facets", names).Msg("dxbox: observer panicked")
				caught = append(caught, p)
			}
		}

		if len(caught) > 0 && len(catchers) == 0 {
			// leave the registry consistent, then propagate
			r.mu.Lock()
			r.delivering = 0
			r.mu.Unlock()
			panic(caught[0])
		}

		for _, p := range caught {
			for _, catch := range catchers {
				catch(p)
			}
		}

		r.mu.Lock()
		r.delivering = 0
		set = r.queued
		r.queued = nil
	}

	r.mu.Unlock()
}

// deliver runs one observer behind a failure boundary, so one panicking
// observer cannot block the rest of the delivery.
func deliver(fn func([]string), names []string) (p any) {
	defer func() { p = recover() }()

	fn(names)
	return nil
}
