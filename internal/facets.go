package internal

import (
	"maps"
	"slices"
)

// Facets is a set of facet names awaiting (or undergoing) delivery.
type Facets map[string]struct{}

func NewFacets(names ...string) Facets {
	f := make(Facets, len(names))
	f.Add(names...)
	return f
}

func (f Facets) Add(names ...string) {
	for _, name := range names {
		f[name] = struct{}{}
	}
}

func (f Facets) Union(other Facets) {
	maps.Copy(f, other)
}

func (f Facets) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Facets) Empty() bool {
	return len(f) == 0
}

func (f Facets) Clone() Facets {
	return maps.Clone(f)
}

// Names returns the members sorted, so observers see a stable order.
func (f Facets) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
