package types

import (
	"fmt"
	"sort"

	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// System holds the registered abstract and concrete types and performs
// typeclass inference. It is populated during registry collection and frozen
// at finalization; reads after that need no coordination.
type System struct {
	abstract map[string]*AbstractType
	concrete map[string]*ConcreteType
	order    []string
}

// NewSystem creates an empty type system.
func NewSystem() *System {
	return &System{
		abstract: make(map[string]*AbstractType),
		concrete: make(map[string]*ConcreteType),
	}
}

// RegisterAbstract adds an abstract type.
func (s *System) RegisterAbstract(at *AbstractType) error {
	if at == nil || at.Name == "" {
		return metagrapherrors.NewRegistryError("abstract type missing name", "", nil)
	}
	if _, exists := s.abstract[at.Name]; exists {
		return metagrapherrors.NewRegistryError("abstract type already registered", at.Name, nil)
	}
	s.abstract[at.Name] = at
	return nil
}

// RegisterConcrete adds a concrete type. The abstract reference is validated
// later, at registry finalization, so providers may yield entries in any order.
func (s *System) RegisterConcrete(ct *ConcreteType) error {
	if ct == nil || ct.Name == "" {
		return metagrapherrors.NewRegistryError("concrete type missing name", "", nil)
	}
	if ct.IsTypeclass == nil {
		return metagrapherrors.NewRegistryError("concrete type missing typeclass predicate", ct.Name, nil)
	}
	if _, exists := s.concrete[ct.Name]; exists {
		return metagrapherrors.NewRegistryError("concrete type already registered", ct.Name, nil)
	}
	s.concrete[ct.Name] = ct
	s.order = append(s.order, ct.Name)
	return nil
}

// Abstract looks up an abstract type by name.
func (s *System) Abstract(name string) (*AbstractType, bool) {
	at, ok := s.abstract[name]
	return at, ok
}

// Concrete looks up a concrete type by name.
func (s *System) Concrete(name string) (*ConcreteType, bool) {
	ct, ok := s.concrete[name]
	return ct, ok
}

// AbstractNames returns the registered abstract type names in sorted order.
func (s *System) AbstractNames() []string {
	names := make([]string, 0, len(s.abstract))
	for name := range s.abstract {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConcreteNames returns every registered concrete type name in sorted order.
func (s *System) ConcreteNames() []string {
	names := make([]string, 0, len(s.concrete))
	for name := range s.concrete {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConcreteNamesOf returns the concrete type names bound to the abstract type,
// in sorted order.
func (s *System) ConcreteNamesOf(abstract string) []string {
	var names []string
	for name, ct := range s.concrete {
		if ct.Abstract == abstract {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Infer finds the concrete type claiming the value. Every registered
// predicate is consulted so that double claims surface as
// AmbiguousTypeError rather than depending on registration order.
func (s *System) Infer(value any) (*ConcreteType, error) {
	var claimants []string
	for _, name := range s.order {
		if s.concrete[name].IsTypeclass(value) {
			claimants = append(claimants, name)
		}
	}
	switch len(claimants) {
	case 0:
		return nil, metagrapherrors.NewNoMatchingTypeError(fmt.Sprintf("%T", value))
	case 1:
		return s.concrete[claimants[0]], nil
	default:
		sort.Strings(claimants)
		return nil, metagrapherrors.NewAmbiguousTypeError(claimants)
	}
}

// InferInfo infers the concrete type of a value and extracts its property
// vectors, layering the abstract type's defaults under the reported ones.
func (s *System) InferInfo(value any) (*ConcreteType, TypeInfo, error) {
	ct, err := s.Infer(value)
	if err != nil {
		return nil, TypeInfo{}, err
	}
	info := ct.TypeInfoOf(value)
	if at, ok := s.abstract[ct.Abstract]; ok {
		info.Abstract = at.Defaults().Merge(info.Abstract)
	}
	return ct, info, nil
}
