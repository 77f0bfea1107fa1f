// Package savepath exposes the artifact output directory as the "save_path"
// session item.
package savepath

import (
	"path/filepath"

	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "save_path"

// Module implements the session.Module interface for this package.
type Module struct{}

// New creates the module.
func New() *Module {
	return &Module{}
}

// Register registers the item with the registry.
func (m *Module) Register(r *session.Registry) error {
	return r.Register(ItemName, session.Item{
		Default: session.Unset,
		Type:    cty.String,
		Getter:  clean,
	})
}

func clean(value any) any {
	if path, ok := value.(string); ok {
		return filepath.Clean(path)
	}
	return value
}

// Resolve joins elem onto the effective save path. ok is false when no save
// path is configured.
func Resolve(st *session.Stack, elem ...string) (string, bool) {
	base, ok := session.Get[string](st, ItemName)
	if !ok {
		return "", false
	}
	return filepath.Join(append([]string{base}, elem...)...), true
}
