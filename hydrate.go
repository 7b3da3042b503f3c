package dxbox

import "github.com/fabfog/dxbox/internal"

// HydrateFunc rebuilds a live instance from its dehydrated plain form. It must
// validate its input and fail without constructing anything on malformed data.
type HydrateFunc = internal.HydrateFunc

// Dehydrator reduces an instance to plain, JSON-compatible data, excluding
// observer and registry internals.
type Dehydrator = internal.Dehydrator

var (
	// ErrDuplicateHydrator is returned when a kind name is registered twice.
	ErrDuplicateHydrator = internal.ErrDuplicateHydrator

	// ErrUnknownKind is returned when no hydrator matches a requested kind.
	ErrUnknownKind = internal.ErrUnknownKind
)

// RegisterHydrator associates a stable kind name with the function that
// rebuilds instances of that kind. Registering a name twice is a
// configuration error.
func RegisterHydrator(name string, fn HydrateFunc) error {
	return internal.RegisterHydrator(name, fn)
}

// MustRegisterHydrator is RegisterHydrator for load-time registration; it
// panics on a configuration error.
func MustRegisterHydrator(name string, fn HydrateFunc) {
	if err := internal.RegisterHydrator(name, fn); err != nil {
		panic(err)
	}
}

// ResolveHydrator looks up the hydrate function registered under name.
func ResolveHydrator(name string) (HydrateFunc, bool) {
	return internal.ResolveHydrator(name)
}

// DropHydrator removes a registered kind.
func DropHydrator(name string) {
	internal.DropHydrator(name)
}

// DehydrateAll reduces a keyed set of entities to their plain forms.
func DehydrateAll(values map[string]Dehydrator) map[string]any {
	return internal.DehydrateAll(values)
}

// HydrateAll rebuilds every entity in payload, selecting hydrators through
// kinds, the out-of-band key -> registered-kind mapping. All entities are
// constructed before any is returned; the first failure aborts with nothing
// exposed.
func HydrateAll(kinds map[string]string, payload map[string]any) (map[string]any, error) {
	return internal.HydrateAll(kinds, payload)
}

// EncodeState renders a dehydrated payload as JSON.
func EncodeState(payload map[string]any) ([]byte, error) {
	return internal.EncodeState(payload)
}

// DecodeState parses a JSON payload produced by EncodeState.
func DecodeState(data []byte) (map[string]any, error) {
	return internal.DecodeState(data)
}
