package internal

import (
	"reflect"
	"sync"
)

// Marked wraps fn so the declared facets are reported exactly once, after fn
// settles without error. On error or panic nothing is reported by the wrapper;
// reports already made inside fn stand on their own.
func Marked(r *Registry, facets []string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			return err
		}

		r.Report(facets...)
		return nil
	}
}

// methodTables maps an entity type to its method -> facets declarations.
var methodTables sync.Map

// MethodTable records, per entity type, which facets each mutating method may
// change. Declared once at load time and consulted by the marking wrappers.
type MethodTable struct {
	mu     sync.Mutex
	facets map[string][]string
}

func MethodsFor(t reflect.Type) *MethodTable {
	if m, ok := methodTables.Load(t); ok {
		return m.(*MethodTable)
	}

	m, _ := methodTables.LoadOrStore(t, &MethodTable{facets: make(map[string][]string)})
	return m.(*MethodTable)
}

// DropMethods removes a type's method declarations.
func DropMethods(t reflect.Type) {
	methodTables.Delete(t)
}

func (m *MethodTable) Declare(method string, facets []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.facets[method] = append([]string(nil), facets...)
}

func (m *MethodTable) Facets(method string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.facets[method]...)
}
