// Package panichook exposes the crash handler as the "panic" session item.
// The item holds a callback, so it never persists; loading a checkpoint
// simply leaves it unset.
package panichook

import (
	"fmt"
	"io"

	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "panic"

// Hook receives the recovered panic value and the stack of the panicking
// goroutine before the panic is re-raised.
type Hook func(recovered any, stack []byte)

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
	})
}

// From returns the currently effective hook, if one is configured.
func From(st *session.Stack) (Hook, bool) {
	return session.Get[Hook](st, ItemName)
}

// StackDump returns a hook that writes the panic value and stack to w. The
// --debug flag installs it so crashes leave a full trace on the console.
func StackDump(w io.Writer) Hook {
	return func(recovered any, stack []byte) {
		fmt.Fprintf(w, "panic: %v\n\n%s\n", recovered, stack)
	}
}
