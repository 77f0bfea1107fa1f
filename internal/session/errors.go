package session

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// ErrOutOfOrder is returned when a session is deactivated while it is not on
// top of the stack.
var ErrOutOfOrder = errors.New("session is not on top of the stack")

// ErrNotActive is returned when an already-exited activation is exited again.
var ErrNotActive = errors.New("session scope is no longer active")

// DuplicateNameError is returned by Registry.Register when the item name is
// already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("session: item %q is already registered", e.Name)
}

// UnknownItemError is returned when a session refers to an item name that
// was never registered.
type UnknownItemError struct {
	Name string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("session: unknown item %q", e.Name)
}

// MalformedSessionError is returned by Load when a persisted session
// document cannot be parsed or one of its values cannot be decoded. When the
// failure comes from the HCL layer, Diags carries the source locations.
type MalformedSessionError struct {
	Filename string
	Detail   string
	Diags    hcl.Diagnostics
}

func (e *MalformedSessionError) Error() string {
	if len(e.Diags) > 0 {
		return fmt.Sprintf("session: malformed document %s: %s", e.Filename, e.Diags.Error())
	}
	return fmt.Sprintf("session: malformed document %s: %s", e.Filename, e.Detail)
}

func (e *MalformedSessionError) Unwrap() error {
	if len(e.Diags) > 0 {
		return e.Diags
	}
	return nil
}
