package session

import (
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// unset is the type of the Unset sentinel. It is unexported so no value
// outside this package can collide with it.
type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset marks an item as having no configured value. It is distinct from
// nil: nil is a legal configured value, Unset means "nothing is configured".
// Persisted documents encode Unset as null.
var Unset = unset{}

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(unset)
	return ok
}

// Item describes one configurable slot in a Registry.
type Item struct {
	// Default is the value an item resolves to when no active session pins
	// it. Use Unset for items that are off until configured.
	Default any

	// Type is the cty type the item persists as. Items with NilType are
	// skipped on save and rejected on load (process-local values such as
	// callbacks cannot round-trip through a document).
	Type cty.Type

	// Setter, when non-nil, is invoked with the new effective value every
	// time activation or deactivation changes it. Setters own side effects
	// such as file handles or connections. They must not call back into the
	// stack: activation holds the stack lock while they run.
	Setter func(value any) error

	// Getter, when non-nil, transforms the resolved value on read. It never
	// sees Unset and has no effect on what setters receive or on what is
	// persisted.
	Getter func(value any) any

	// Decode, when non-nil, converts a persisted cty value (already
	// converted to Type) into the item's canonical in-memory value. Without
	// it, strings, bools, and numbers decode natively, numbers as int when
	// whole and float64 otherwise.
	Decode func(value cty.Value) (any, error)
}

// Module is implemented by components that contribute items to a Registry.
type Module interface {
	Register(r *Registry) error
}

// equalValues is the change test used when diffing stack states. Unset only
// equals Unset, functions compare by pointer identity, everything else by
// deep equality.
func equalValues(a, b any) bool {
	if IsUnset(a) || IsUnset(b) {
		return IsUnset(a) && IsUnset(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Kind() == reflect.Func || bv.Kind() == reflect.Func {
		return av.Kind() == bv.Kind() && av.Pointer() == bv.Pointer()
	}
	return reflect.DeepEqual(a, b)
}
