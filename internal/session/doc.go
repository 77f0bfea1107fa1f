// Package session implements the process-wide configuration stack that every
// stweave command runs inside.
//
// A Registry declares the configurable items of the process: each item has a
// name, a default value, and optional hooks that fire when its effective
// value changes (for example, opening or closing a log file stream). A
// Session is an immutable bundle of overrides for a subset of those items.
// Sessions are activated onto a Stack in LIFO order; the effective value of
// an item is the override of the most recently activated session that pins
// it, falling back to the registered default.
//
// Activation and deactivation diff the observable state and invoke item
// setters only for values that actually change, so layering a session that
// repeats the current state is free. Sessions can be persisted to disk as
// HCL documents and loaded back, which is how training checkpoints record
// the configuration they ran under.
package session
