package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// Scope is a handle on one open batch on one entity. Work that suspends across
// goroutines holds the scope and closes it when the work settles; the entity's
// depth counter, not the call stack, decides when the pending set flushes.
type Scope struct {
	once sync.Once
	reg  *Registry
}

func (r *Registry) OpenScope() *Scope {
	r.Open()
	return &Scope{reg: r}
}

// Close settles the scope. Closing twice is a no-op.
func (s *Scope) Close() {
	s.once.Do(s.reg.Close)
}

// Batch runs fn with a batch scope open on r. Everything fn reports, anywhere
// in its call graph, is delivered once when the outermost scope closes. The
// scope closes on error and panic too, so facets reported before a failure
// still flush.
func (r *Registry) Batch(fn func() error) error {
	s := r.OpenScope()
	defer s.Close()

	return fn()
}

// ambient holds one batch per goroutine, looked up by goroutine id.
var ambient sync.Map

type ambientBatch struct {
	enrolled map[*Registry]bool
	order    []*Registry
}

// Atomic runs fn with every entity that reports on this goroutine enrolled in
// a batch. Each enrolled entity flushes independently when fn settles; the
// per-entity counters still rule, so an entity already inside an open batch
// stays deferred.
func Atomic(fn func() error) error {
	gid := goid.Get()

	b := &ambientBatch{enrolled: make(map[*Registry]bool)}
	prev, nested := ambient.Load(gid)
	ambient.Store(gid, b)

	defer func() {
		if nested {
			ambient.Store(gid, prev)
		} else {
			ambient.Delete(gid)
		}

		for _, r := range b.order {
			r.Close()
		}
	}()

	return fn()
}

func enrollAmbient(r *Registry) {
	v, ok := ambient.Load(goid.Get())
	if !ok {
		return
	}

	b := v.(*ambientBatch)
	if b.enrolled[r] {
		return
	}

	b.enrolled[r] = true
	b.order = append(b.order, r)
	r.Open()
}
