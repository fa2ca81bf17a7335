package types

import (
	"fmt"

	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// AbstractType is a named category of value (Graph, NodeMap, Vector, ...)
// carrying an ordered set of abstract properties with defaults.
type AbstractType struct {
	Name       string
	Properties []PropertySpec
}

// PropertySpec returns the declared spec for the named property.
func (a *AbstractType) PropertySpec(name string) (PropertySpec, bool) {
	for _, spec := range a.Properties {
		if spec.Name == name {
			return spec, true
		}
	}
	return PropertySpec{}, false
}

// Defaults returns the default property vector for the abstract type.
func (a *AbstractType) Defaults() Properties {
	out := make(Properties, len(a.Properties))
	for _, spec := range a.Properties {
		if spec.Default != "" {
			out[spec.Name] = spec.Default
		}
	}
	return out
}

// ValidateProperties checks that every key is declared and every value is
// within its allowed domain.
func (a *AbstractType) ValidateProperties(props Properties) error {
	for key, value := range props {
		spec, ok := a.PropertySpec(key)
		if !ok {
			return metagrapherrors.NewValidationError(
				a.Name, fmt.Sprintf("unknown property %q", key), nil)
		}
		if len(spec.Allowed) > 0 && !spec.Allows(value) {
			return metagrapherrors.NewValidationError(
				a.Name, fmt.Sprintf("property %q does not allow value %q", key, value), nil)
		}
	}
	return nil
}
