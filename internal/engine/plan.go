package engine

import (
	"fmt"
	"strings"
)

// ArgPlan records the translation chain chosen for one bound parameter, in
// the algorithm's declared parameter order. Scalars carry no steps and name
// their primitive kind as Source.
type ArgPlan struct {
	Param string

	// Source is the inferred concrete type of the argument, or the primitive
	// kind name for scalars.
	Source string

	// Steps holds translator identifiers; Path holds the concrete type names
	// visited, source first. len(Path) == len(Steps)+1 for typed parameters.
	Steps []string
	Path  []string

	Cost float64
}

// Plan is the frozen, inspectable record of a dispatch decision. It refers to
// registry descriptors by stable identifier only, so plans stay value
// comparable and the descriptor graph acyclic.
type Plan struct {
	Algorithm      string
	Implementation string
	Args           []ArgPlan
	TotalCost      float64

	// Returns is the expected concrete return type name, empty for scalars.
	Returns string
}

// Equal reports structural equality between plans.
func (p *Plan) Equal(other *Plan) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Fingerprint() == other.Fingerprint()
}

// Fingerprint renders the plan as a canonical string. Equal fingerprints mean
// structural equality; the lazy task graph hashes this for placeholder keys.
func (p *Plan) Fingerprint() string {
	var b strings.Builder
	b.WriteString(p.Algorithm)
	b.WriteByte('|')
	b.WriteString(p.Implementation)
	for _, arg := range p.Args {
		fmt.Fprintf(&b, "|%s:%s", arg.Param, arg.Source)
		for _, step := range arg.Steps {
			b.WriteByte('>')
			b.WriteString(step)
		}
	}
	fmt.Fprintf(&b, "|cost=%g|ret=%s", p.TotalCost, p.Returns)
	return b.String()
}

// Describe pretty-prints the plan: chosen implementation, per-argument
// chains, total cost, and expected return type.
func (p *Plan) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Algorithm)
	fmt.Fprintf(&b, "  implementation: %s\n", p.Implementation)
	for _, arg := range p.Args {
		fmt.Fprintf(&b, "  %s: %s", arg.Param, arg.Source)
		for i, step := range arg.Steps {
			fmt.Fprintf(&b, " -> (via %s) -> %s", step, arg.Path[i+1])
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  total cost: %g\n", p.TotalCost)
	returns := p.Returns
	if returns == "" {
		returns = "scalar"
	}
	fmt.Fprintf(&b, "  returns: %s", returns)
	return b.String()
}
