// Package csrplugin provides the compressed-sparse-row graph representation
// and the pagerank implementations built on it.
package csrplugin

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/metagraph-dev/metagraph/internal/plugin"
	adjacencyplugin "github.com/metagraph-dev/metagraph/internal/plugins/adjacency"
	builtinplugin "github.com/metagraph-dev/metagraph/internal/plugins/builtin"
	"github.com/metagraph-dev/metagraph/internal/types"
)

// TypeName is the concrete type identifier for CSR graphs.
const TypeName = "CSRGraph"

const floatTolerance = 1e-9

// Graph is a compressed-sparse-row adjacency structure. Nodes holds the
// sorted node ids; row i spans Cols[Offsets[i]:Offsets[i+1]].
type Graph struct {
	Nodes    []int
	Offsets  []int
	Cols     []int
	Weights  []float64
	Directed bool
}

// Row returns the column indexes and weights of row i.
func (g *Graph) Row(i int) ([]int, []float64) {
	start, end := g.Offsets[i], g.Offsets[i+1]
	return g.Cols[start:end], g.Weights[start:end]
}

// Provider yields the concrete type, translators to and from the adjacency
// representation, the abstract pagerank signature, and its CSR
// implementation.
func Provider() plugin.EntryProvider {
	return plugin.ProviderFunc(func() []plugin.Entry {
		return []plugin.Entry{
			plugin.NewConcreteTypeEntry(&types.ConcreteType{
				Name:     TypeName,
				Abstract: builtinplugin.AbstractGraph,
				Properties: []types.PropertySpec{
					{Name: "storage", Allowed: []string{"csr"}, Default: "csr"},
				},
				IsTypeclass: func(value any) bool {
					_, ok := value.(*Graph)
					return ok
				},
				ExtractTypeInfo: func(value any) types.TypeInfo {
					g := value.(*Graph)
					return types.TypeInfo{
						Abstract: types.Properties{"is_directed": fmt.Sprintf("%t", g.Directed)},
						Concrete: types.Properties{"storage": "csr"},
					}
				},
				AssertEqual: assertEqual,
			}),

			plugin.NewTranslatorEntry(&plugin.Translator{
				Name:     "adjacency_to_csr",
				Source:   adjacencyplugin.TypeName,
				Target:   TypeName,
				Cost:     1,
				Lossless: true,
				Fn:       fromAdjacency,
			}),
			plugin.NewTranslatorEntry(&plugin.Translator{
				Name:     "csr_to_adjacency",
				Source:   TypeName,
				Target:   adjacencyplugin.TypeName,
				Cost:     1,
				Lossless: true,
				Fn:       toAdjacency,
			}),

			plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
				Name: "centrality.pagerank",
				Params: []plugin.AbstractParam{
					{Name: "graph", Abstract: builtinplugin.AbstractGraph},
					{Name: "damping", Primitive: types.PrimitiveFloat, Default: 0.85, HasDefault: true},
					{Name: "maxiter", Primitive: types.PrimitiveInt, Default: 50, HasDefault: true},
					{Name: "tol", Primitive: types.PrimitiveFloat, Default: 1e-5, HasDefault: true},
				},
				Returns: plugin.AbstractReturn{Abstract: builtinplugin.AbstractNodeMap},
			}),
			plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
				Name:       "csr.pagerank",
				Implements: "centrality.pagerank",
				Params: []plugin.ConcreteParam{
					{Name: "graph", Concrete: TypeName},
					{Name: "damping", Primitive: types.PrimitiveFloat},
					{Name: "maxiter", Primitive: types.PrimitiveInt},
					{Name: "tol", Primitive: types.PrimitiveFloat},
				},
				Returns: builtinplugin.TypeNodeMap,
				Fn:      pagerank,
			}),
		}
	})
}

func fromAdjacency(ctx context.Context, value any) (any, error) {
	src := value.(*adjacencyplugin.Graph)
	nodes := src.Nodes()
	index := make(map[int]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	g := &Graph{
		Nodes:    nodes,
		Offsets:  make([]int, 1, len(nodes)+1),
		Directed: src.Directed,
	}
	for _, n := range nodes {
		for _, dst := range src.Neighbors(n) {
			g.Cols = append(g.Cols, index[dst])
			g.Weights = append(g.Weights, src.Out[n][dst])
		}
		g.Offsets = append(g.Offsets, len(g.Cols))
	}
	return g, nil
}

func toAdjacency(ctx context.Context, value any) (any, error) {
	src := value.(*Graph)
	g := adjacencyplugin.NewGraph(src.Directed)
	for _, n := range src.Nodes {
		g.AddNode(n)
	}
	for i, n := range src.Nodes {
		cols, weights := src.Row(i)
		for j, col := range cols {
			g.Out[n][src.Nodes[col]] = weights[j]
		}
	}
	return g, nil
}

func pagerank(ctx context.Context, args []any) (any, error) {
	g := args[0].(*Graph)
	damping, err := asFloat(args[1])
	if err != nil {
		return nil, err
	}
	maxiter, err := asInt(args[2])
	if err != nil {
		return nil, err
	}
	tol, err := asFloat(args[3])
	if err != nil {
		return nil, err
	}

	n := len(g.Nodes)
	if n == 0 {
		return &builtinplugin.NodeMap{Values: map[int]float64{}}, nil
	}

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}
	rowWeight := make([]float64, n)
	for i := 0; i < n; i++ {
		_, weights := g.Row(i)
		for _, w := range weights {
			rowWeight[i] += w
		}
	}

	next := make([]float64, n)
	for iter := 0; iter < maxiter; iter++ {
		base := (1 - damping) / float64(n)
		for i := range next {
			next[i] = base
		}

		danglingMass := 0.0
		for i := 0; i < n; i++ {
			if rowWeight[i] == 0 {
				danglingMass += rank[i]
				continue
			}
			cols, weights := g.Row(i)
			scale := damping * rank[i] / rowWeight[i]
			for j, col := range cols {
				next[col] += scale * weights[j]
			}
		}
		if danglingMass > 0 {
			share := damping * danglingMass / float64(n)
			for i := range next {
				next[i] += share
			}
		}

		delta := 0.0
		for i := range next {
			delta += math.Abs(next[i] - rank[i])
		}
		rank, next = next, rank
		if delta < tol {
			break
		}
	}

	values := make(map[int]float64, n)
	for i, node := range g.Nodes {
		values[node] = rank[i]
	}
	return &builtinplugin.NodeMap{Values: values}, nil
}

func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected int, got %T", value)
	}
}

func asFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected float, got %T", value)
	}
}

func assertEqual(a, b any) error {
	left := a.(*Graph)
	right, ok := b.(*Graph)
	if !ok {
		return fmt.Errorf("expected *Graph, got %T", b)
	}
	if left.Directed != right.Directed {
		return fmt.Errorf("directedness differs: %t vs %t", left.Directed, right.Directed)
	}
	if !sort.IntsAreSorted(left.Nodes) || !sort.IntsAreSorted(right.Nodes) {
		return fmt.Errorf("node lists must be sorted")
	}
	if len(left.Nodes) != len(right.Nodes) {
		return fmt.Errorf("node counts differ: %d vs %d", len(left.Nodes), len(right.Nodes))
	}
	for i := range left.Nodes {
		if left.Nodes[i] != right.Nodes[i] {
			return fmt.Errorf("node sets differ at %d: %d vs %d", i, left.Nodes[i], right.Nodes[i])
		}
	}
	for i := range left.Nodes {
		lcols, lweights := left.Row(i)
		rcols, rweights := right.Row(i)
		if len(lcols) != len(rcols) {
			return fmt.Errorf("row %d lengths differ: %d vs %d", i, len(lcols), len(rcols))
		}
		for j := range lcols {
			if lcols[j] != rcols[j] {
				return fmt.Errorf("row %d column %d differs: %d vs %d", i, j, lcols[j], rcols[j])
			}
			if math.Abs(lweights[j]-rweights[j]) > floatTolerance {
				return fmt.Errorf("row %d weight %d differs: %g vs %g", i, j, lweights[j], rweights[j])
			}
		}
	}
	return nil
}
