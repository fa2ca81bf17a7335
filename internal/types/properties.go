package types

import (
	"fmt"
	"sort"
	"strings"

	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// Properties is a finite key/value map refining what a value may be used for.
// Keys come from the declared property domain of an abstract or concrete type.
type Properties map[string]string

// Clone returns an independent copy of the property map.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p with the entries of other layered on top.
func (p Properties) Merge(other Properties) Properties {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Satisfies reports whether every property constrained by req equals the
// value's property. Keys absent from req are free.
func (p Properties) Satisfies(req Properties) bool {
	for k, want := range req {
		if got, ok := p[k]; !ok || got != want {
			return false
		}
	}
	return true
}

// Mismatch returns the first constrained property that p fails to satisfy,
// in lexicographic key order for determinism.
func (p Properties) Mismatch(req Properties) error {
	keys := make([]string, 0, len(req))
	for k := range req {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if got, ok := p[k]; !ok || got != req[k] {
			return metagrapherrors.NewPropertyMismatch(k, req[k], got)
		}
	}
	return nil
}

// Key renders the map as a canonical sorted "k=v;k=v" string, suitable for
// use in search-state and cache keys.
func (p Properties) Key() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%s", k, p[k])
	}
	return b.String()
}

// PropertySpec declares one property of a type: its name, the values it may
// take, and the default assumed when a value does not report it.
type PropertySpec struct {
	Name    string
	Allowed []string
	Default string
}

// Allows reports whether the value is within the declared domain.
func (s PropertySpec) Allows(value string) bool {
	for _, v := range s.Allowed {
		if v == value {
			return true
		}
	}
	return false
}
