package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateHydrator is returned when a kind name is registered twice.
	ErrDuplicateHydrator = errors.New("hydrator already registered")

	// ErrUnknownKind is returned when no hydrator matches a requested kind.
	ErrUnknownKind = errors.New("unknown kind")
)

// HydrateFunc rebuilds a live instance from its dehydrated plain form. It must
// validate the input and fail without constructing anything on malformed data.
type HydrateFunc func(plain any) (any, error)

// Dehydrator reduces an instance to plain, JSON-compatible data. The result
// must not include observer or registry internals.
type Dehydrator interface {
	Dehydrate() any
}

// hydrators maps a stable kind name to the function that rebuilds instances of
// that kind. Keyed by name, not type identity, so renaming the implementing
// type does not break stored payloads.
var hydrators sync.Map

func RegisterHydrator(name string, fn HydrateFunc) error {
	if _, loaded := hydrators.LoadOrStore(name, fn); loaded {
		return fmt.Errorf("%w: %q", ErrDuplicateHydrator, name)
	}

	return nil
}

func ResolveHydrator(name string) (HydrateFunc, bool) {
	fn, ok := hydrators.Load(name)
	if !ok {
		return nil, false
	}

	return fn.(HydrateFunc), true
}

// DropHydrator removes a registered kind.
func DropHydrator(name string) {
	hydrators.Delete(name)
}

// DehydrateAll reduces a keyed set of entities to their plain forms.
func DehydrateAll(values map[string]Dehydrator) map[string]any {
	plain := make(map[string]any, len(values))
	for key, value := range values {
		plain[key] = value.Dehydrate()
	}

	return plain
}

// HydrateAll rebuilds every entity in payload, dispatching on kinds, the
// out-of-band key -> registered-kind mapping. Every entity is constructed
// before any is returned: the first failure aborts with nothing exposed.
func HydrateAll(kinds map[string]string, payload map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(payload))

	for key, plain := range payload {
		kind, ok := kinds[key]
		if !ok {
			return nil, fmt.Errorf("%w: key %q has no kind mapped", ErrUnknownKind, key)
		}

		hydrate, ok := ResolveHydrator(kind)
		if !ok {
			return nil, fmt.Errorf("%w: %q (key %q)", ErrUnknownKind, kind, key)
		}

		instance, err := hydrate(plain)
		if err != nil {
			return nil, fmt.Errorf("hydrate %q: %w", key, err)
		}

		out[key] = instance
	}

	return out, nil
}

// EncodeState renders a dehydrated payload as JSON.
func EncodeState(payload map[string]any) ([]byte, error) {
	return json.Marshal(payload)
}

// DecodeState parses a JSON payload produced by EncodeState.
func DecodeState(data []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	return payload, nil
}
