// Package seed exposes the random seed as the "seed" session item.
// Activating a session that changes it reseeds the process random source,
// which is what makes checkpointed runs reproducible.
package seed

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/stweave/stweave/internal/rng"
	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "seed"

// Module implements the session.Module interface for this package.
type Module struct {
	source *rng.Source
}

// New creates the module bound to the source it reseeds.
func New(source *rng.Source) *Module {
	return &Module{source: source}
}

// Register registers the item with the registry. Seeds are int64 end to
// end; the Decode hook keeps loaded documents on the same type.
func (m *Module) Register(r *session.Registry) error {
	return r.Register(ItemName, session.Item{
		Default: int64(0),
		Type:    cty.Number,
		Setter:  m.set,
		Decode:  decode,
	})
}

func (m *Module) set(value any) error {
	if session.IsUnset(value) {
		m.source.Reseed(0)
		return nil
	}
	s, ok := value.(int64)
	if !ok {
		return fmt.Errorf("seed: expected int64, got %T", value)
	}
	m.source.Reseed(s)
	return nil
}

func decode(value cty.Value) (any, error) {
	var s int64
	if err := gocty.FromCtyValue(value, &s); err != nil {
		return nil, err
	}
	return s, nil
}
