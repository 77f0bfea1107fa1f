package session

import (
	"fmt"
	"slices"
)

// Registry holds the items a process exposes for session control. Items are
// registered once during startup; registration order is preserved and
// determines the order in which setters fire during activation.
//
// A Registry is safe for concurrent reads after registration has finished.
// Register itself is not safe to call concurrently with anything else.
type Registry struct {
	names []string
	items map[string]Item
}

// NewRegistry creates an empty item registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Item)}
}

// Register adds an item under the given name. Names are unique: registering
// a taken name returns a DuplicateNameError and leaves the registry
// unchanged.
func (r *Registry) Register(name string, item Item) error {
	if name == "" {
		return fmt.Errorf("session: item name must not be empty")
	}
	if _, exists := r.items[name]; exists {
		return &DuplicateNameError{Name: name}
	}
	r.items[name] = item
	r.names = append(r.names, name)
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate name is a
// programmer error.
func (r *Registry) MustRegister(name string, item Item) {
	if err := r.Register(name, item); err != nil {
		panic(err)
	}
}

// Lookup returns the item registered under name, or an UnknownItemError.
func (r *Registry) Lookup(name string) (Item, error) {
	item, ok := r.items[name]
	if !ok {
		return Item{}, &UnknownItemError{Name: name}
	}
	return item, nil
}

// Names returns the registered item names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered items.
func (r *Registry) Len() int {
	return len(r.names)
}
