// Package adjacencyplugin provides the adjacency-map graph representation
// and the traversal and clustering algorithms that suit it.
package adjacencyplugin

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/metagraph-dev/metagraph/internal/plugin"
	builtinplugin "github.com/metagraph-dev/metagraph/internal/plugins/builtin"
	edgelistplugin "github.com/metagraph-dev/metagraph/internal/plugins/edgelist"
	"github.com/metagraph-dev/metagraph/internal/types"
)

// TypeName is the concrete type identifier for adjacency-map graphs.
const TypeName = "AdjacencyGraph"

const floatTolerance = 1e-9

// Graph stores out-neighbors as nested weight maps. Undirected graphs store
// each edge in both directions.
type Graph struct {
	Out      map[int]map[int]float64
	Directed bool
}

// NewGraph creates an empty adjacency graph.
func NewGraph(directed bool) *Graph {
	return &Graph{Out: make(map[int]map[int]float64), Directed: directed}
}

// AddNode ensures the node exists.
func (g *Graph) AddNode(n int) {
	if _, ok := g.Out[n]; !ok {
		g.Out[n] = make(map[int]float64)
	}
}

// AddEdge inserts a weighted edge, mirroring it for undirected graphs.
func (g *Graph) AddEdge(src, dst int, weight float64) {
	g.AddNode(src)
	g.AddNode(dst)
	g.Out[src][dst] = weight
	if !g.Directed && src != dst {
		g.Out[dst][src] = weight
	}
}

// Nodes returns the sorted node ids.
func (g *Graph) Nodes() []int {
	nodes := make([]int, 0, len(g.Out))
	for n := range g.Out {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

// Neighbors returns the sorted out-neighbors of a node.
func (g *Graph) Neighbors(n int) []int {
	out := make([]int, 0, len(g.Out[n]))
	for m := range g.Out[n] {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// Provider yields the concrete type, translators to and from the edge-list
// representation, and the adjacency-backed algorithms.
func Provider() plugin.EntryProvider {
	return plugin.ProviderFunc(func() []plugin.Entry {
		return []plugin.Entry{
			plugin.NewConcreteTypeEntry(&types.ConcreteType{
				Name:     TypeName,
				Abstract: builtinplugin.AbstractGraph,
				Properties: []types.PropertySpec{
					{Name: "storage", Allowed: []string{"adjacency"}, Default: "adjacency"},
				},
				IsTypeclass: func(value any) bool {
					_, ok := value.(*Graph)
					return ok
				},
				ExtractTypeInfo: func(value any) types.TypeInfo {
					g := value.(*Graph)
					return types.TypeInfo{
						Abstract: types.Properties{"is_directed": fmt.Sprintf("%t", g.Directed)},
						Concrete: types.Properties{"storage": "adjacency"},
					}
				},
				AssertEqual: assertEqual,
			}),

			plugin.NewTranslatorEntry(&plugin.Translator{
				Name:     "edgelist_to_adjacency",
				Source:   edgelistplugin.TypeName,
				Target:   TypeName,
				Cost:     1,
				Lossless: true,
				Fn:       fromEdgeList,
			}),
			plugin.NewTranslatorEntry(&plugin.Translator{
				Name:     "adjacency_to_edgelist",
				Source:   TypeName,
				Target:   edgelistplugin.TypeName,
				Cost:     1,
				Lossless: true,
				Fn:       toEdgeList,
			}),

			plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
				Name: "traversal.bfs_iter",
				Params: []plugin.AbstractParam{
					{Name: "graph", Abstract: builtinplugin.AbstractGraph},
					{Name: "source", Primitive: types.PrimitiveInt},
				},
				Returns: plugin.AbstractReturn{Abstract: builtinplugin.AbstractVector},
			}),
			plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
				Name:       "adjacency.bfs_iter",
				Implements: "traversal.bfs_iter",
				Params: []plugin.ConcreteParam{
					{Name: "graph", Concrete: TypeName},
					{Name: "source", Primitive: types.PrimitiveInt},
				},
				Returns: builtinplugin.TypeVector,
				Fn:      bfsIter,
			}),

			plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
				Name: "clustering.connected_components",
				Params: []plugin.AbstractParam{
					{
						Name:     "graph",
						Abstract: builtinplugin.AbstractGraph,
						Require:  types.Properties{"is_directed": "false"},
					},
				},
				Returns: plugin.AbstractReturn{Abstract: builtinplugin.AbstractNodeMap},
			}),
			plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
				Name:       "adjacency.connected_components",
				Implements: "clustering.connected_components",
				Params: []plugin.ConcreteParam{
					{Name: "graph", Concrete: TypeName},
				},
				Returns: builtinplugin.TypeNodeMap,
				Fn:      connectedComponents,
			}),

			plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
				Name:       "adjacency.pagerank",
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

func fromEdgeList(ctx context.Context, value any) (any, error) {
	src := value.(*edgelistplugin.Graph)
	g := NewGraph(src.Directed)
	for _, n := range src.Nodes() {
		g.AddNode(n)
	}
	for _, e := range src.Edges {
		g.AddEdge(e.Src, e.Dst, e.Weight)
	}
	return g, nil
}

func toEdgeList(ctx context.Context, value any) (any, error) {
	g := value.(*Graph)
	out := &edgelistplugin.Graph{Directed: g.Directed}

	for _, src := range g.Nodes() {
		if len(g.Out[src]) == 0 {
			hasIncoming := false
			for _, weights := range g.Out {
				if _, ok := weights[src]; ok {
					hasIncoming = true
					break
				}
			}
			if !hasIncoming {
				out.Isolated = append(out.Isolated, src)
			}
			continue
		}
		for _, dst := range g.Neighbors(src) {
			if !g.Directed && src > dst {
				continue
			}
			out.Edges = append(out.Edges, edgelistplugin.Edge{Src: src, Dst: dst, Weight: g.Out[src][dst]})
		}
	}
	return out, nil
}

// bfsIter returns the node ids reachable from source in breadth-first order,
// neighbors visited in ascending id order.
func bfsIter(ctx context.Context, args []any) (any, error) {
	g := args[0].(*Graph)
	source, err := asInt(args[1])
	if err != nil {
		return nil, err
	}
	if _, ok := g.Out[source]; !ok {
		return nil, fmt.Errorf("source node %d not in graph", source)
	}

	visited := map[int]struct{}{source: {}}
	order := []float64{float64(source)}
	queue := []int{source}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(current) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			order = append(order, float64(next))
			queue = append(queue, next)
		}
	}
	return &builtinplugin.Vector{Values: order}, nil
}

// connectedComponents labels each node with the smallest node id of its
// component.
func connectedComponents(ctx context.Context, args []any) (any, error) {
	g := args[0].(*Graph)

	labels := make(map[int]float64, len(g.Out))
	for _, start := range g.Nodes() {
		if _, done := labels[start]; done {
			continue
		}
		labels[start] = float64(start)
		queue := []int{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range g.Neighbors(current) {
				if _, done := labels[next]; done {
					continue
				}
				labels[next] = float64(start)
				queue = append(queue, next)
			}
		}
	}
	return &builtinplugin.NodeMap{Values: labels}, nil
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

	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return &builtinplugin.NodeMap{Values: map[int]float64{}}, nil
	}

	rank := make(map[int]float64, n)
	for _, node := range nodes {
		rank[node] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxiter; iter++ {
		next := make(map[int]float64, n)
		base := (1 - damping) / float64(n)
		for _, node := range nodes {
			next[node] = base
		}

		danglingMass := 0.0
		for _, node := range nodes {
			out := g.Out[node]
			if len(out) == 0 {
				danglingMass += rank[node]
				continue
			}
			totalWeight := 0.0
			for _, w := range out {
				totalWeight += w
			}
			for dst, w := range out {
				next[dst] += damping * rank[node] * w / totalWeight
			}
		}
		if danglingMass > 0 {
			share := damping * danglingMass / float64(n)
			for _, node := range nodes {
				next[node] += share
			}
		}

		delta := 0.0
		for _, node := range nodes {
			delta += math.Abs(next[node] - rank[node])
		}
		rank = next
		if delta < tol {
			break
		}
	}
	return &builtinplugin.NodeMap{Values: rank}, nil
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
	if len(left.Out) != len(right.Out) {
		return fmt.Errorf("node counts differ: %d vs %d", len(left.Out), len(right.Out))
	}
	for node, weights := range left.Out {
		otherWeights, ok := right.Out[node]
		if !ok {
			return fmt.Errorf("node %d missing from right side", node)
		}
		if len(weights) != len(otherWeights) {
			return fmt.Errorf("node %d degree differs: %d vs %d", node, len(weights), len(otherWeights))
		}
		for dst, w := range weights {
			other, ok := otherWeights[dst]
			if !ok {
				return fmt.Errorf("edge %d->%d missing from right side", node, dst)
			}
			if math.Abs(w-other) > floatTolerance {
				return fmt.Errorf("edge %d->%d weight differs: %g vs %g", node, dst, w, other)
			}
		}
	}
	return nil
}
