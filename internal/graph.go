package internal

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrCycle is returned when a dependency declaration would make the graph cyclic.
var ErrCycle = errors.New("cyclic facet dependency")

// Graph holds the declared edges from derived facets to the base facets they read.
// Declarations happen a fixed number of times at load, expansion on every flush.
type Graph struct {
	mu sync.Mutex

	// bases maps a derived facet to the facets it is computed from
	bases map[string][]string

	// dependents is the reverse index, from a facet to the facets derived from it
	dependents map[string][]string
}

func NewGraph() *Graph {
	return &Graph{
		bases:      make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// Declare records that derived is computed from bases, replacing any previous
// declaration for the same derived facet. A declaration that would close a cycle
// is rejected before being installed.
func (g *Graph) Declare(derived string, bases []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := make(map[string][]string, len(g.bases)+1)
	for name, deps := range g.bases {
		candidate[name] = deps
	}
	candidate[derived] = bases

	// the previous graph was acyclic, so any new cycle runs through derived
	for _, base := range bases {
		if reaches(candidate, base, derived) {
			return fmt.Errorf("%w: %q depends on itself through %q", ErrCycle, derived, base)
		}
	}

	g.removeLocked(derived)
	g.bases[derived] = append([]string(nil), bases...)
	for _, base := range bases {
		g.dependents[base] = append(g.dependents[base], derived)
	}

	return nil
}

func reaches(bases map[string][]string, from, target string) bool {
	if from == target {
		return true
	}

	for _, next := range bases[from] {
		if reaches(bases, next, target) {
			return true
		}
	}

	return false
}

func (g *Graph) removeLocked(derived string) {
	prev, ok := g.bases[derived]
	if !ok {
		return
	}

	delete(g.bases, derived)
	for _, base := range prev {
		deps := g.dependents[base]
		for i, name := range deps {
			if name == derived {
				g.dependents[base] = append(deps[:i], deps[i+1:]...)
				break
			}
		}
		if len(g.dependents[base]) == 0 {
			delete(g.dependents, base)
		}
	}
}

// Expand returns changed plus every facet transitively derived from a member.
// The input set is not mutated.
func (g *Graph) Expand(changed Facets) Facets {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := changed.Clone()
	queue := result.Names()

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, derived := range g.dependents[name] {
			if !result.Has(derived) {
				result.Add(derived)
				queue = append(queue, derived)
			}
		}
	}

	return result
}

// graphs holds one dependency graph per entity type.
var graphs sync.Map

// GraphFor returns the dependency graph for the given entity type,
// creating it on first use.
func GraphFor(t reflect.Type) *Graph {
	if g, ok := graphs.Load(t); ok {
		return g.(*Graph)
	}

	g, _ := graphs.LoadOrStore(t, NewGraph())
	return g.(*Graph)
}

// DropGraph removes the dependency graph for the given entity type.
// Call it when a type's declarations should no longer be retained.
func DropGraph(t reflect.Type) {
	graphs.Delete(t)
}
