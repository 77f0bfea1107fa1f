package session

import "maps"

// Session is an immutable set of item overrides bound to one registry. A
// session only describes state; nothing happens until it is activated on a
// Stack. The same session may be activated any number of times, even
// concurrently on different stacks.
type Session struct {
	reg       *Registry
	overrides map[string]any
}

// NewSession builds a session from explicit overrides. Every override name
// must be registered; an unknown name fails the whole construction with an
// UnknownItemError. The overrides map is copied, so the caller may reuse it.
func NewSession(reg *Registry, overrides map[string]any) (*Session, error) {
	if reg == nil {
		panic("session: NewSession called with nil registry")
	}
	copied := make(map[string]any, len(overrides))
	for name, value := range overrides {
		if _, err := reg.Lookup(name); err != nil {
			return nil, err
		}
		copied[name] = value
	}
	return &Session{reg: reg, overrides: copied}, nil
}

// Override returns the value this session pins for name, if any.
func (s *Session) Override(name string) (any, bool) {
	value, ok := s.overrides[name]
	return value, ok
}

// Overrides returns a copy of the session's override map.
func (s *Session) Overrides() map[string]any {
	return maps.Clone(s.overrides)
}

// Names returns the item names this session overrides, in the registry's
// registration order.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.overrides))
	for _, name := range s.reg.names {
		if _, ok := s.overrides[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Len returns the number of items this session overrides.
func (s *Session) Len() int {
	return len(s.overrides)
}
