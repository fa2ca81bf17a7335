package plugin

import (
	"context"

	"github.com/metagraph-dev/metagraph/internal/types"
)

// Translator converts a value from one concrete type to another of the same
// abstract type. Translators are pure: they construct new values and never
// mutate their input.
type Translator struct {
	// Name is the stable identifier used for deterministic tie-breaking and
	// plan rendering, e.g. "edgelist_to_adjacency".
	Name string

	// Source and Target are concrete type names. Both must belong to the same
	// abstract type; the registry enforces this at finalization.
	Source string
	Target string

	// Cost weighs this edge in the translation multigraph. Zero means the
	// default of 1.
	Cost float64

	// Lossless marks the translation as exactly invertible, enabling
	// round-trip testing.
	Lossless bool

	// Fn performs the conversion.
	Fn func(ctx context.Context, value any) (any, error)

	// PropertyRule maps the input property vector to the output one. Nil
	// means pass-through.
	PropertyRule func(props types.Properties) types.Properties
}

// EdgeCost returns the effective cost with the default applied.
func (t *Translator) EdgeCost() float64 {
	if t.Cost <= 0 {
		return 1
	}
	return t.Cost
}

// Propagate applies the property rule to a vector.
func (t *Translator) Propagate(props types.Properties) types.Properties {
	if t.PropertyRule == nil {
		return props.Clone()
	}
	return t.PropertyRule(props.Clone())
}
