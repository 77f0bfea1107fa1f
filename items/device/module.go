// Package device exposes the compute device selector as the "device"
// session item. The setter validates the name, so activating a session with
// a device the process cannot address fails the activation up front.
package device

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "device"

// Default is the device used when no session overrides it.
const Default = "cpu"

// Module implements the session.Module interface for this package.
type Module struct{}

// New creates the module.
func New() *Module {
	return &Module{}
}

// Register registers the item with the registry.
func (m *Module) Register(r *session.Registry) error {
	return r.Register(ItemName, session.Item{
		Default: Default,
		Type:    cty.String,
		Setter:  validate,
	})
}

func validate(value any) error {
	if session.IsUnset(value) {
		return nil
	}
	name, ok := value.(string)
	if !ok {
		return fmt.Errorf("device: expected string, got %T", value)
	}
	if !known(name) {
		return fmt.Errorf("device: unrecognized device %q (want cpu, cuda, or cuda:N)", name)
	}
	return nil
}

func known(name string) bool {
	if name == "cpu" || name == "cuda" {
		return true
	}
	ordinal, found := strings.CutPrefix(name, "cuda:")
	if !found || ordinal == "" {
		return false
	}
	for _, r := range ordinal {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
