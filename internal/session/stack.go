package session

import (
	"errors"
	"fmt"
	"sync"
)

// Stack is the LIFO of active sessions for one registry. All mutation and
// resolution goes through a single mutex, so concurrent readers always see a
// fully applied activation or none of it.
type Stack struct {
	mu     sync.Mutex
	reg    *Registry
	active []*entry
}

// entry wraps an activated session. Pointer identity distinguishes repeated
// activations of the same Session value.
type entry struct {
	session *Session
}

// Active is the handle returned by Enter. Exiting it deactivates the
// session; activations must be exited in reverse order of entry.
type Active struct {
	stack *Stack
	entry *entry
	done  bool // guarded by stack.mu
}

// NewStack creates an empty activation stack over reg.
func NewStack(reg *Registry) *Stack {
	if reg == nil {
		panic("session: NewStack called with nil registry")
	}
	return &Stack{reg: reg}
}

// Registry returns the registry this stack resolves against.
func (st *Stack) Registry() *Registry {
	return st.reg
}

// Depth returns the number of currently active sessions.
func (st *Stack) Depth() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.active)
}

// Effective resolves the current value of an item: the override of the most
// recently activated session that pins it, or the registered default. The
// item's Getter, if any, is applied unless the value is Unset.
func (st *Stack) Effective(name string) (any, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	item, err := st.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	value := st.resolveLocked(name, item)
	if item.Getter != nil && !IsUnset(value) {
		value = item.Getter(value)
	}
	return value, nil
}

// resolveLocked returns the raw effective value, before any Getter.
func (st *Stack) resolveLocked(name string, item Item) any {
	for i := len(st.active) - 1; i >= 0; i-- {
		if value, ok := st.active[i].session.overrides[name]; ok {
			return value
		}
	}
	return item.Default
}

// Get resolves name as a T. It returns ok=false when the item is Unset, and
// the zero value with ok=true when the item was explicitly set to nil.
// Unknown names and type mismatches panic: both are wiring bugs, not runtime
// conditions.
func Get[T any](st *Stack, name string) (T, bool) {
	var zero T
	value, err := st.Effective(name)
	if err != nil {
		panic(err)
	}
	if IsUnset(value) {
		return zero, false
	}
	if value == nil {
		return zero, true
	}
	typed, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("session: item %q holds %T, not %T", name, value, zero))
	}
	return typed, true
}

// change is one entry of an activation diff.
type change struct {
	name string
	item Item
	old  any
	new  any
}

// Enter activates s on top of the stack. Setters fire, in registration
// order, for every item whose effective value the activation changes; only
// then is the session pushed. If a setter fails, the setters already fired
// are re-invoked with their previous values, the stack is left unchanged,
// and the setter's error is returned (any rollback failures joined to it).
func (st *Stack) Enter(s *Session) (*Active, error) {
	if s == nil {
		return nil, errors.New("session: cannot activate a nil session")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if s.reg != st.reg {
		return nil, errors.New("session: session was built against a different registry")
	}

	var changes []change
	for _, name := range st.reg.names {
		next, ok := s.overrides[name]
		if !ok {
			continue
		}
		item := st.reg.items[name]
		if item.Setter == nil {
			continue
		}
		prev := st.resolveLocked(name, item)
		if equalValues(prev, next) {
			continue
		}
		changes = append(changes, change{name: name, item: item, old: prev, new: next})
	}

	for i, c := range changes {
		if err := c.item.Setter(c.new); err != nil {
			err = fmt.Errorf("session: setter for item %q: %w", c.name, err)
			errs := []error{err}
			for j := i - 1; j >= 0; j-- {
				if rbErr := changes[j].item.Setter(changes[j].old); rbErr != nil {
					errs = append(errs, fmt.Errorf("session: rolling back item %q: %w", changes[j].name, rbErr))
				}
			}
			return nil, errors.Join(errs...)
		}
	}

	e := &entry{session: s}
	st.active = append(st.active, e)
	return &Active{stack: st, entry: e}, nil
}

// Exit deactivates the session. The session is popped first, then setters
// fire, in registration order, for every item whose effective value the pop
// changed. The pop happens even if setters fail; their errors are joined and
// returned so a partially restored environment is visible to the caller.
//
// Exiting out of order returns ErrOutOfOrder and changes nothing. Exiting
// twice returns ErrNotActive.
func (a *Active) Exit() error {
	return a.stack.exit(a)
}

func (st *Stack) exit(a *Active) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if a.done {
		return ErrNotActive
	}
	n := len(st.active)
	if n == 0 || st.active[n-1] != a.entry {
		return fmt.Errorf("%w: %d session(s) activated after it have not exited", ErrOutOfOrder, st.depthAboveLocked(a.entry))
	}

	a.done = true
	st.active = st.active[:n-1]

	var errs []error
	for _, name := range st.reg.names {
		prev, ok := a.entry.session.overrides[name]
		if !ok {
			continue
		}
		item := st.reg.items[name]
		if item.Setter == nil {
			continue
		}
		next := st.resolveLocked(name, item)
		if equalValues(prev, next) {
			continue
		}
		if err := item.Setter(next); err != nil {
			errs = append(errs, fmt.Errorf("session: restoring item %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// depthAboveLocked counts the sessions stacked on top of e, for error
// reporting. Returns 0 when e is not on the stack at all.
func (st *Stack) depthAboveLocked(e *entry) int {
	for i := len(st.active) - 1; i >= 0; i-- {
		if st.active[i] == e {
			return len(st.active) - 1 - i
		}
	}
	return 0
}

// Within activates the given sessions in order, runs fn, and deactivates
// them in reverse order on the way out, whether fn returns or panics. Later
// sessions overlay earlier ones, so the last session wins where they pin the
// same item. Exit errors are joined onto fn's error; panics propagate after
// cleanup.
func (st *Stack) Within(fn func() error, sessions ...*Session) (err error) {
	for _, s := range sessions {
		active, enterErr := st.Enter(s)
		if enterErr != nil {
			return enterErr
		}
		defer func() {
			err = errors.Join(err, active.Exit())
		}()
	}
	return fn()
}

// Snapshot captures every item whose effective value differs from its
// registered default as a fresh session. Activating the snapshot on an empty
// stack reproduces the observable state it was taken in.
func (st *Stack) Snapshot() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	overrides := make(map[string]any)
	for _, name := range st.reg.names {
		item := st.reg.items[name]
		value := st.resolveLocked(name, item)
		if equalValues(value, item.Default) {
			continue
		}
		overrides[name] = value
	}
	return &Session{reg: st.reg, overrides: overrides}
}
