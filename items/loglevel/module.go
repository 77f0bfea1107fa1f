// Package loglevel exposes the shared logging threshold as the "log_level"
// session item. Values are slog levels: 0 is Info, -4 is Debug, 4 is Warn.
package loglevel

import (
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "log_level"

// Module implements the session.Module interface for this package.
type Module struct {
	router *logging.Router
}

// New creates the module bound to the router whose level it drives.
func New(router *logging.Router) *Module {
	return &Module{router: router}
}

// Register registers the item with the registry.
func (m *Module) Register(r *session.Registry) error {
	return r.Register(ItemName, session.Item{
		Default: int(slog.LevelInfo),
		Type:    cty.Number,
		Setter:  m.set,
	})
}

// set applies the new threshold. An Unset override falls back to Info, the
// same level an untouched process runs at.
func (m *Module) set(value any) error {
	if session.IsUnset(value) {
		m.router.SetLevel(slog.LevelInfo)
		return nil
	}
	level, ok := value.(int)
	if !ok {
		return fmt.Errorf("log_level: expected int, got %T", value)
	}
	m.router.SetLevel(slog.Level(level))
	return nil
}
