package dxbox

import (
	"reflect"

	"github.com/fabfog/dxbox/internal"
)

// ErrCycle is returned by Derive when a declaration would make the dependency
// graph cyclic.
var ErrCycle = internal.ErrCycle

// Derive declares that the derived facet of entity type T is computed from the
// given base facets. Whenever a base facet is reported, the derived facet is
// added to the same delivery. Declarations are per type, made once at load
// time; redeclaring a facet replaces its previous bases. A declaration closing
// a cycle is rejected with ErrCycle before being installed.
func Derive[T any](derived string, bases ...string) error {
	return internal.GraphFor(typeKey[T]()).Declare(derived, bases)
}

// MustDerive is Derive for load-time declarations; it panics on a
// configuration error.
func MustDerive[T any](derived string, bases ...string) {
	if err := Derive[T](derived, bases...); err != nil {
		panic(err)
	}
}

// DropDerived removes every dependency declared for T, releasing the type's
// entry in the shared graph table.
func DropDerived[T any]() {
	internal.DropGraph(typeKey[T]())
}

// Entity is satisfied by any type that embeds Notifier.
type Entity interface {
	core() *internal.Registry
}

// Bind attaches the dependency graph declared for the entity's type to its
// notifier and returns the entity. Entities built through Observe or Compose
// are bound already; call Bind on types embedding Notifier themselves.
func Bind[T Entity](entity T) T {
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	entity.core().SetGraph(internal.GraphFor(t))
	return entity
}
