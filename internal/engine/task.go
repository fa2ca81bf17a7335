package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Placeholder is an opaque handle to a pending lazy computation: one node of
// the deferred task DAG. Placeholders are created strictly from existing
// ones by forward composition, so the graph cannot contain cycles.
type Placeholder struct {
	key      string
	concrete string

	// plan and args are set for computation tasks; value for constants.
	plan  *Plan
	args  []*Placeholder
	value any
}

// Key is the deterministic identity of the task: a stable hash of
// (plan fingerprint, argument keys). Equal (plan, args) pairs share a key,
// which lets schedulers deduplicate shared upstream work.
func (p *Placeholder) Key() string {
	return p.key
}

// ConcreteType is the expected concrete type of the materialized value, empty
// for scalars.
func (p *Placeholder) ConcreteType() string {
	return p.concrete
}

// IsConstant reports whether the task wraps an eager value.
func (p *Placeholder) IsConstant() bool {
	return p.plan == nil
}

// Upstream returns the placeholder's direct inputs.
func (p *Placeholder) Upstream() []*Placeholder {
	return p.args
}

// UpstreamKeys returns the keys of the placeholder's direct inputs.
func (p *Placeholder) UpstreamKeys() []string {
	keys := make([]string, len(p.args))
	for i, arg := range p.args {
		keys[i] = arg.key
	}
	return keys
}

// Plan exposes the wrapped dispatch decision, nil for constants.
func (p *Placeholder) Plan() *Plan {
	return p.plan
}

func hashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:16])
}

// NewConstant wraps an eager value as a constant task. The key is derived
// from the value's concrete type and structural rendering, so the same value
// wrapped twice deduplicates to one upstream task.
func NewConstant(value any, concrete string) *Placeholder {
	if ph, ok := value.(*Placeholder); ok {
		return ph
	}
	return &Placeholder{
		key:      hashKey("const", concrete, fingerprintValue(value)),
		concrete: concrete,
		value:    value,
	}
}

// Defer wraps a resolved plan and its bound arguments into a task. Non
// placeholder arguments become constant tasks; their concrete types are
// taken from the matching plan entry.
func Defer(plan *Plan, bound []any) *Placeholder {
	args := make([]*Placeholder, len(bound))
	for i, value := range bound {
		if ph, ok := value.(*Placeholder); ok {
			args[i] = ph
			continue
		}
		concrete := ""
		if i < len(plan.Args) && len(plan.Args[i].Path) > 0 {
			concrete = plan.Args[i].Path[0]
		}
		args[i] = NewConstant(value, concrete)
	}

	parts := make([]string, 0, len(args)+2)
	parts = append(parts, "task", plan.Fingerprint())
	for _, arg := range args {
		parts = append(parts, arg.key)
	}

	return &Placeholder{
		key:      hashKey(parts...),
		concrete: plan.Returns,
		plan:     plan,
		args:     args,
	}
}

// Compute materializes the placeholder by depth-first evaluation of the task
// DAG. Shared upstream tasks evaluate once per call.
func (p *Placeholder) Compute(ctx context.Context, d *Dispatcher) (any, error) {
	memo := make(map[string]any, 8)
	return p.compute(ctx, d, memo)
}

func (p *Placeholder) compute(ctx context.Context, d *Dispatcher, memo map[string]any) (any, error) {
	if cached, ok := memo[p.key]; ok {
		return cached, nil
	}
	if p.IsConstant() {
		memo[p.key] = p.value
		return p.value, nil
	}

	inputs := make([]any, len(p.args))
	for i, arg := range p.args {
		value, err := arg.compute(ctx, d, memo)
		if err != nil {
			return nil, err
		}
		inputs[i] = value
	}

	result, err := d.Execute(ctx, p.plan, inputs)
	if err != nil {
		return nil, err
	}
	memo[p.key] = result
	return result, nil
}
