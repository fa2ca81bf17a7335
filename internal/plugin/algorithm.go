package plugin

import (
	"context"
	"strings"

	"github.com/metagraph-dev/metagraph/internal/types"
)

// AbstractParam declares one parameter of an abstract algorithm: either a
// value of an abstract type (with optional property constraints) or a scalar.
type AbstractParam struct {
	Name string

	// Abstract names the abstract type for typed parameters. Empty for
	// scalars, in which case Primitive is set.
	Abstract  string
	Require   types.Properties
	Primitive types.Primitive

	Default    any
	HasDefault bool
}

// IsTyped reports whether the parameter flows through the type system.
func (p AbstractParam) IsTyped() bool {
	return p.Abstract != ""
}

// AbstractReturn declares the return category of an abstract algorithm.
type AbstractReturn struct {
	Abstract  string
	Require   types.Properties
	Primitive types.Primitive
}

// AbstractAlgorithm is an algorithm signature in terms of abstract types.
// The name is dotted, e.g. "centrality.pagerank"; the leading segments form
// the group used for navigation.
type AbstractAlgorithm struct {
	Name    string
	Params  []AbstractParam
	Returns AbstractReturn
}

// Group returns the dotted prefix of the algorithm name.
func (a *AbstractAlgorithm) Group() string {
	idx := strings.LastIndex(a.Name, ".")
	if idx < 0 {
		return ""
	}
	return a.Name[:idx]
}

// Param returns the named parameter declaration.
func (a *AbstractAlgorithm) Param(name string) (AbstractParam, bool) {
	for _, p := range a.Params {
		if p.Name == name {
			return p, true
		}
	}
	return AbstractParam{}, false
}

// ConcreteParam refines one abstract parameter to a concrete type. Scalar
// parameters stay scalar and Concrete is empty.
type ConcreteParam struct {
	Name      string
	Concrete  string
	Require   types.Properties
	Primitive types.Primitive
}

// IsTyped reports whether the parameter is bound to a concrete type.
func (p ConcreteParam) IsTyped() bool {
	return p.Concrete != ""
}

// Spec builds the translation target spec for this parameter.
func (p ConcreteParam) Spec(abstract string) types.TypeSpec {
	return types.Spec(abstract, p.Concrete, p.Require)
}

// ConcreteAlgorithm implements a named abstract algorithm with a concrete
// parameter list and the callable implementation.
type ConcreteAlgorithm struct {
	// Name identifies the implementation, e.g. "adjacency.pagerank".
	Name string

	// Implements names the abstract algorithm this entry satisfies.
	Implements string

	Params []ConcreteParam

	// Returns is the concrete return type name; empty for scalar returns.
	Returns string

	// Fn receives arguments in declared parameter order, already translated
	// to the concrete parameter types.
	Fn func(ctx context.Context, args []any) (any, error)
}

// Wrapper constructs a concrete value from raw library data, e.g. an edge
// list graph from a slice of edge triples.
type Wrapper struct {
	// Name identifies the wrapper within its abstract category.
	Name string

	// Abstract names the category the produced value belongs to.
	Abstract string

	Build func(args ...any) (any, error)
}
