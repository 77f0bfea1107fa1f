// Package logfile exposes the per-run log destination as the "log_file"
// session item. Activating a session that sets it opens the file and
// attaches it as a logging sink; deactivation closes the stream and
// reattaches whatever the surrounding session configured.
package logfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "log_file"

// sinkName is the router slot this module owns.
const sinkName = "file"

// Module implements the session.Module interface for this package.
type Module struct {
	router *logging.Router

	mu   sync.Mutex
	file *os.File
}

// New creates the module bound to the router it attaches file sinks to.
func New(router *logging.Router) *Module {
	return &Module{router: router}
}

// Register registers the item with the registry.
func (m *Module) Register(r *session.Registry) error {
	return r.Register(ItemName, session.Item{
		Default: session.Unset,
		Type:    cty.String,
		Setter:  m.set,
	})
}

// set swaps the active log stream: the previous sink is detached and its
// file closed before the new path is opened. An Unset value leaves logging
// on the console only.
func (m *Module) set(value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.router.Detach(sinkName)
	if m.file != nil {
		closed := m.file
		m.file = nil
		if err := closed.Close(); err != nil {
			return fmt.Errorf("log_file: closing previous stream: %w", err)
		}
	}

	path, ok := value.(string)
	if !ok {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("log_file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log_file: opening %s: %w", path, err)
	}
	m.file = f
	m.router.Attach(sinkName, slog.NewTextHandler(f, nil))
	m.router.Logger().Debug("Opened log file stream.", "path", path)
	return nil
}
