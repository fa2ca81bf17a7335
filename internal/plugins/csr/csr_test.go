package csrplugin

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	adjacencyplugin "github.com/metagraph-dev/metagraph/internal/plugins/adjacency"
	builtinplugin "github.com/metagraph-dev/metagraph/internal/plugins/builtin"
)

func randomAdjacency(rt *rapid.T) *adjacencyplugin.Graph {
	directed := rapid.Bool().Draw(rt, "directed")
	edgeCount := rapid.IntRange(0, 25).Draw(rt, "edgeCount")

	g := adjacencyplugin.NewGraph(directed)
	for i := 0; i < edgeCount; i++ {
		src := rapid.IntRange(0, 9).Draw(rt, fmt.Sprintf("src_%d", i))
		dst := rapid.IntRange(0, 9).Draw(rt, fmt.Sprintf("dst_%d", i))
		weight := float64(rapid.IntRange(1, 9).Draw(rt, fmt.Sprintf("w_%d", i)))
		g.AddEdge(src, dst, weight)
	}
	// A few isolated nodes keep the node-set preservation honest.
	for i := 0; i < rapid.IntRange(0, 3).Draw(rt, "isolated"); i++ {
		g.AddNode(100 + i)
	}
	return g
}

func TestAdjacencyRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		original := randomAdjacency(rt)

		ctx := context.Background()
		compressed, err := fromAdjacency(ctx, original)
		require.NoError(rt, err)
		back, err := toAdjacency(ctx, compressed)
		require.NoError(rt, err)

		require.NoError(rt, adjacencyAssertEqual(original, back.(*adjacencyplugin.Graph)))
	})
}

func adjacencyAssertEqual(a, b *adjacencyplugin.Graph) error {
	for _, entry := range adjacencyplugin.Provider().Entries() {
		if entry.ConcreteType != nil {
			return entry.ConcreteType.AssertEqual(a, b)
		}
	}
	return fmt.Errorf("adjacency concrete type not found")
}

// TestPagerankAgreesAcrossRepresentations checks semantic equivalence of the
// two pagerank implementations on the same logical graph.
func TestPagerankAgreesAcrossRepresentations(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		adj := randomAdjacency(rt)

		ctx := context.Background()
		compressed, err := fromAdjacency(ctx, adj)
		require.NoError(rt, err)

		viaCSR, err := pagerank(ctx, []any{compressed, 0.85, 60, 0.0})
		require.NoError(rt, err)

		viaAdjacency, err := adjacencyPagerank(ctx, adj)
		require.NoError(rt, err)

		left := viaCSR.(*builtinplugin.NodeMap).Values
		right := viaAdjacency.Values
		require.Equal(rt, len(left), len(right))
		for node, rank := range left {
			require.InDelta(rt, rank, right[node], 1e-9)
		}
	})
}

// adjacencyPagerank runs the adjacency backend's implementation through its
// registered entry.
func adjacencyPagerank(ctx context.Context, g *adjacencyplugin.Graph) (*builtinplugin.NodeMap, error) {
	for _, entry := range adjacencyplugin.Provider().Entries() {
		if entry.ConcreteAlgorithm != nil && entry.ConcreteAlgorithm.Name == "adjacency.pagerank" {
			out, err := entry.ConcreteAlgorithm.Fn(ctx, []any{g, 0.85, 60, 0.0})
			if err != nil {
				return nil, err
			}
			return out.(*builtinplugin.NodeMap), nil
		}
	}
	return nil, fmt.Errorf("adjacency.pagerank not found")
}

func TestCSRRowSlicing(t *testing.T) {
	t.Parallel()

	adj := adjacencyplugin.NewGraph(true)
	adj.AddEdge(3, 1, 2)
	adj.AddEdge(3, 5, 4)
	adj.AddEdge(1, 5, 1)

	compressed, err := fromAdjacency(context.Background(), adj)
	require.NoError(t, err)

	g := compressed.(*Graph)
	require.Equal(t, []int{1, 3, 5}, g.Nodes)

	cols, weights := g.Row(1) // node 3
	require.Len(t, cols, 2)
	require.Equal(t, []float64{2, 4}, weights)
	require.Equal(t, []int{0, 2}, cols) // indexes of nodes 1 and 5

	_, weights = g.Row(2) // node 5, no out-edges
	require.Empty(t, weights)

	total := 0.0
	for _, w := range g.Weights {
		total += w
	}
	require.Equal(t, 7.0, total)
	require.False(t, math.IsNaN(total))
}
