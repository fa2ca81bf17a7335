// Package builtinplugin declares the core abstract types and algorithm
// signatures shared by every builtin backend, plus the dense NodeMap,
// NodeSet, and Vector representations.
package builtinplugin

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/metagraph-dev/metagraph/internal/plugin"
	"github.com/metagraph-dev/metagraph/internal/types"
)

// Abstract type names shared across backends.
const (
	AbstractGraph   = "Graph"
	AbstractNodeMap = "NodeMap"
	AbstractNodeSet = "NodeSet"
	AbstractVector  = "Vector"
)

// Concrete type names declared by this package.
const (
	TypeNodeMap = "BuiltinNodeMap"
	TypeNodeSet = "BuiltinNodeSet"
	TypeVector  = "DenseVector"
)

const floatTolerance = 1e-9

// NodeMap maps node ids to float values.
type NodeMap struct {
	Values map[int]float64
}

// NodeSet is a set of node ids.
type NodeSet struct {
	Members map[int]struct{}
}

// Vector is a dense float vector.
type Vector struct {
	Values []float64
}

// Provider yields the shared abstract types, the dense concrete types, their
// wrappers, and the nodemap utility algorithms.
func Provider() plugin.EntryProvider {
	return plugin.ProviderFunc(func() []plugin.Entry {
		return []plugin.Entry{
			plugin.NewAbstractTypeEntry(&types.AbstractType{
				Name: AbstractGraph,
				Properties: []types.PropertySpec{
					{Name: "is_directed", Allowed: []string{"true", "false"}, Default: "false"},
					{Name: "edge_type", Allowed: []string{"map", "set"}, Default: "map"},
					{Name: "edge_dtype", Allowed: []string{"int", "float"}, Default: "float"},
				},
			}),
			plugin.NewAbstractTypeEntry(&types.AbstractType{
				Name: AbstractNodeMap,
				Properties: []types.PropertySpec{
					{Name: "dtype", Allowed: []string{"int", "float"}, Default: "float"},
				},
			}),
			plugin.NewAbstractTypeEntry(&types.AbstractType{Name: AbstractNodeSet}),
			plugin.NewAbstractTypeEntry(&types.AbstractType{
				Name: AbstractVector,
				Properties: []types.PropertySpec{
					{Name: "dtype", Allowed: []string{"int", "float"}, Default: "float"},
				},
			}),

			plugin.NewConcreteTypeEntry(&types.ConcreteType{
				Name:     TypeNodeMap,
				Abstract: AbstractNodeMap,
				IsTypeclass: func(value any) bool {
					_, ok := value.(*NodeMap)
					return ok
				},
				AssertEqual: assertNodeMapEqual,
			}),
			plugin.NewConcreteTypeEntry(&types.ConcreteType{
				Name:     TypeNodeSet,
				Abstract: AbstractNodeSet,
				IsTypeclass: func(value any) bool {
					_, ok := value.(*NodeSet)
					return ok
				},
				AssertEqual: assertNodeSetEqual,
			}),
			plugin.NewConcreteTypeEntry(&types.ConcreteType{
				Name:     TypeVector,
				Abstract: AbstractVector,
				IsTypeclass: func(value any) bool {
					_, ok := value.(*Vector)
					return ok
				},
				AssertEqual: assertVectorEqual,
			}),

			plugin.NewWrapperEntry(&plugin.Wrapper{
				Name:     TypeNodeMap,
				Abstract: AbstractNodeMap,
				Build:    buildNodeMap,
			}),
			plugin.NewWrapperEntry(&plugin.Wrapper{
				Name:     TypeNodeSet,
				Abstract: AbstractNodeSet,
				Build:    buildNodeSet,
			}),
			plugin.NewWrapperEntry(&plugin.Wrapper{
				Name:     TypeVector,
				Abstract: AbstractVector,
				Build:    buildVector,
			}),

			plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
				Name: "util.nodemap.select",
				Params: []plugin.AbstractParam{
					{Name: "nodemap", Abstract: AbstractNodeMap},
					{Name: "nodes", Abstract: AbstractNodeSet},
				},
				Returns: plugin.AbstractReturn{Abstract: AbstractNodeMap},
			}),
			plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
				Name:       "builtin.nodemap_select",
				Implements: "util.nodemap.select",
				Params: []plugin.ConcreteParam{
					{Name: "nodemap", Concrete: TypeNodeMap},
					{Name: "nodes", Concrete: TypeNodeSet},
				},
				Returns: TypeNodeMap,
				Fn:      nodemapSelect,
			}),
		}
	})
}

func buildNodeMap(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("nodemap wrapper takes one argument, got %d", len(args))
	}
	values, ok := args[0].(map[int]float64)
	if !ok {
		return nil, fmt.Errorf("nodemap wrapper takes map[int]float64, got %T", args[0])
	}
	out := make(map[int]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	return &NodeMap{Values: out}, nil
}

func buildNodeSet(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("nodeset wrapper takes one argument, got %d", len(args))
	}
	nodes, ok := args[0].([]int)
	if !ok {
		return nil, fmt.Errorf("nodeset wrapper takes []int, got %T", args[0])
	}
	members := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		members[n] = struct{}{}
	}
	return &NodeSet{Members: members}, nil
}

func buildVector(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("vector wrapper takes one argument, got %d", len(args))
	}
	values, ok := args[0].([]float64)
	if !ok {
		return nil, fmt.Errorf("vector wrapper takes []float64, got %T", args[0])
	}
	return &Vector{Values: append([]float64(nil), values...)}, nil
}

func nodemapSelect(ctx context.Context, args []any) (any, error) {
	nodemap := args[0].(*NodeMap)
	nodes := args[1].(*NodeSet)

	out := make(map[int]float64)
	for node := range nodes.Members {
		if value, ok := nodemap.Values[node]; ok {
			out[node] = value
		}
	}
	return &NodeMap{Values: out}, nil
}

func assertNodeMapEqual(a, b any) error {
	left := a.(*NodeMap)
	right, ok := b.(*NodeMap)
	if !ok {
		return fmt.Errorf("expected *NodeMap, got %T", b)
	}
	if len(left.Values) != len(right.Values) {
		return fmt.Errorf("nodemap sizes differ: %d vs %d", len(left.Values), len(right.Values))
	}
	for node, value := range left.Values {
		other, ok := right.Values[node]
		if !ok {
			return fmt.Errorf("node %d missing from right side", node)
		}
		if math.Abs(value-other) > floatTolerance {
			return fmt.Errorf("node %d differs: %g vs %g", node, value, other)
		}
	}
	return nil
}

func assertNodeSetEqual(a, b any) error {
	left := a.(*NodeSet)
	right, ok := b.(*NodeSet)
	if !ok {
		return fmt.Errorf("expected *NodeSet, got %T", b)
	}
	if len(left.Members) != len(right.Members) {
		return fmt.Errorf("nodeset sizes differ: %d vs %d", len(left.Members), len(right.Members))
	}
	missing := make([]int, 0)
	for node := range left.Members {
		if _, ok := right.Members[node]; !ok {
			missing = append(missing, node)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		return fmt.Errorf("nodes missing from right side: %v", missing)
	}
	return nil
}

func assertVectorEqual(a, b any) error {
	left := a.(*Vector)
	right, ok := b.(*Vector)
	if !ok {
		return fmt.Errorf("expected *Vector, got %T", b)
	}
	if len(left.Values) != len(right.Values) {
		return fmt.Errorf("vector lengths differ: %d vs %d", len(left.Values), len(right.Values))
	}
	for i, value := range left.Values {
		if math.Abs(value-right.Values[i]) > floatTolerance {
			return fmt.Errorf("index %d differs: %g vs %g", i, value, right.Values[i])
		}
	}
	return nil
}
