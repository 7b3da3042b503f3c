// Package dxbox turns plain Go values into observable entities: methods mark
// which named facets of state they may have changed, declared dependencies
// propagate those changes to derived facets, and bursts of changes coalesce
// into a single delivery per logical operation.
package dxbox

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/fabfog/dxbox/internal"
)

// SetLogger installs a structured logger for flush traces and recovered
// observer panics. The library is silent without one.
func SetLogger(l zerolog.Logger) {
	internal.SetLogger(l)
}

// typeKey normalizes a type parameter to the entity type the per-type tables
// are keyed by, so Derive[Account] and Bind on a *Account agree.
func typeKey[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
