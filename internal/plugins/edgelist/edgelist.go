// Package edgelistplugin provides the edge-list graph representation: a flat
// slice of weighted edges, cheap to build and append to, expensive to query.
package edgelistplugin

import (
	"fmt"
	"sort"

	"github.com/metagraph-dev/metagraph/internal/plugin"
	builtinplugin "github.com/metagraph-dev/metagraph/internal/plugins/builtin"
	"github.com/metagraph-dev/metagraph/internal/types"
)

// TypeName is the concrete type identifier for edge-list graphs.
const TypeName = "EdgeListGraph"

// Edge is one weighted edge.
type Edge struct {
	Src    int
	Dst    int
	Weight float64
}

// Graph is a graph stored as a flat edge list. Isolated nodes are listed
// explicitly so translations preserve the node set.
type Graph struct {
	Edges    []Edge
	Isolated []int
	Directed bool
}

// Nodes returns the sorted node ids appearing in the graph.
func (g *Graph) Nodes() []int {
	seen := make(map[int]struct{})
	for _, e := range g.Edges {
		seen[e.Src] = struct{}{}
		seen[e.Dst] = struct{}{}
	}
	for _, n := range g.Isolated {
		seen[n] = struct{}{}
	}
	nodes := make([]int, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

// Provider yields the concrete type and its graph wrapper.
func Provider() plugin.EntryProvider {
	return plugin.ProviderFunc(func() []plugin.Entry {
		return []plugin.Entry{
			plugin.NewConcreteTypeEntry(&types.ConcreteType{
				Name:     TypeName,
				Abstract: builtinplugin.AbstractGraph,
				Properties: []types.PropertySpec{
					{Name: "storage", Allowed: []string{"edgelist"}, Default: "edgelist"},
				},
				IsTypeclass: func(value any) bool {
					_, ok := value.(*Graph)
					return ok
				},
				ExtractTypeInfo: func(value any) types.TypeInfo {
					g := value.(*Graph)
					return types.TypeInfo{
						Abstract: types.Properties{"is_directed": fmt.Sprintf("%t", g.Directed)},
						Concrete: types.Properties{"storage": "edgelist"},
					}
				},
				AssertEqual: assertEqual,
			}),
			plugin.NewWrapperEntry(&plugin.Wrapper{
				Name:     TypeName,
				Abstract: builtinplugin.AbstractGraph,
				Build:    build,
			}),
		}
	})
}

func build(args ...any) (any, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("edgelist wrapper takes edges and an optional directed flag, got %d arguments", len(args))
	}
	edges, ok := args[0].([]Edge)
	if !ok {
		return nil, fmt.Errorf("edgelist wrapper takes []Edge, got %T", args[0])
	}
	directed := false
	if len(args) == 2 {
		directed, ok = args[1].(bool)
		if !ok {
			return nil, fmt.Errorf("directed flag must be bool, got %T", args[1])
		}
	}
	return &Graph{Edges: append([]Edge(nil), edges...), Directed: directed}, nil
}

// assertEqual compares graphs as canonical edge sets; edge order is not part
// of the representation's meaning.
func assertEqual(a, b any) error {
	left := a.(*Graph)
	right, ok := b.(*Graph)
	if !ok {
		return fmt.Errorf("expected *Graph, got %T", b)
	}
	if left.Directed != right.Directed {
		return fmt.Errorf("directedness differs: %t vs %t", left.Directed, right.Directed)
	}

	leftEdges := canonicalEdges(left)
	rightEdges := canonicalEdges(right)
	if len(leftEdges) != len(rightEdges) {
		return fmt.Errorf("edge counts differ: %d vs %d", len(leftEdges), len(rightEdges))
	}
	for i := range leftEdges {
		if leftEdges[i] != rightEdges[i] {
			return fmt.Errorf("edge %d differs: %+v vs %+v", i, leftEdges[i], rightEdges[i])
		}
	}

	leftNodes := left.Nodes()
	rightNodes := right.Nodes()
	if len(leftNodes) != len(rightNodes) {
		return fmt.Errorf("node counts differ: %d vs %d", len(leftNodes), len(rightNodes))
	}
	for i := range leftNodes {
		if leftNodes[i] != rightNodes[i] {
			return fmt.Errorf("node sets differ at %d: %d vs %d", i, leftNodes[i], rightNodes[i])
		}
	}
	return nil
}

func canonicalEdges(g *Graph) []Edge {
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if !g.Directed && e.Src > e.Dst {
			e.Src, e.Dst = e.Dst, e.Src
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Src != out[j].Src {
			return out[i].Src < out[j].Src
		}
		if out[i].Dst != out[j].Dst {
			return out[i].Dst < out[j].Dst
		}
		return out[i].Weight < out[j].Weight
	})
	return out
}
