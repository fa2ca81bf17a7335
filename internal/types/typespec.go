package types

import "strings"

// TypeSpec is a constrained type annotation used for algorithm parameters,
// return declarations, and translation targets. Concrete may be empty when
// any concrete type of the abstract category is acceptable.
type TypeSpec struct {
	Abstract string
	Concrete string
	Require  Properties
}

// Spec constructs a spec pinned to a concrete type with property constraints.
func Spec(abstract, concrete string, require Properties) TypeSpec {
	return TypeSpec{Abstract: abstract, Concrete: concrete, Require: require.Clone()}
}

// AbstractSpec constructs a spec constrained only by abstract category.
func AbstractSpec(abstract string, require Properties) TypeSpec {
	return TypeSpec{Abstract: abstract, Require: require.Clone()}
}

// SatisfiedBy reports whether a value of the given concrete type with the
// given combined property vector satisfies the spec.
func (s TypeSpec) SatisfiedBy(concrete string, props Properties) bool {
	if s.Concrete != "" && s.Concrete != concrete {
		return false
	}
	return props.Satisfies(s.Require)
}

// String renders the spec for diagnostics.
func (s TypeSpec) String() string {
	var b strings.Builder
	switch {
	case s.Concrete != "":
		b.WriteString(s.Concrete)
	case s.Abstract != "":
		b.WriteString(s.Abstract)
	default:
		b.WriteString("any")
	}
	if len(s.Require) > 0 {
		b.WriteByte('[')
		b.WriteString(s.Require.Key())
		b.WriteByte(']')
	}
	return b.String()
}
