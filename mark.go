package dxbox

import "github.com/fabfog/dxbox/internal"

// Marked wraps a value-returning fn so the given facets are reported exactly
// once, after fn settles without error. Failures propagate unchanged and
// nothing is reported for them.
func Marked[T any](n *Notifier, fn func() (T, error), facets ...string) func() (T, error) {
	return func() (T, error) {
		result, err := fn()
		if err != nil {
			var zero T
			return zero, err
		}

		n.Report(facets...)
		return result, nil
	}
}

// DeclareMethod records, once at load time, which facets the named method of T
// may change. The table is per type, not per instance.
func DeclareMethod[T any](method string, facets ...string) {
	internal.MethodsFor(typeKey[T]()).Declare(method, facets)
}

// MethodFacets returns the facets declared for the named method of T.
func MethodFacets[T any](method string) []string {
	return internal.MethodsFor(typeKey[T]()).Facets(method)
}

// DropMethods removes T's method declarations.
func DropMethods[T any]() {
	internal.DropMethods(typeKey[T]())
}

// MarkMethod wraps fn with the facet list declared for the named method of T.
func MarkMethod[T any](n *Notifier, method string, fn func() error) func() error {
	return n.Mark(fn, MethodFacets[T](method)...)
}
