package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metagraph-dev/metagraph/internal/logger"
	"github.com/metagraph-dev/metagraph/internal/plugin"
	"github.com/metagraph-dev/metagraph/internal/registry"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

func bfsAbstract() plugin.Entry {
	return plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
		Name: "traversal.bfs_iter",
		Params: []plugin.AbstractParam{
			{Name: "graph", Abstract: "Graph"},
			{Name: "depth", Primitive: types.PrimitiveInt},
		},
		Returns: plugin.AbstractReturn{Abstract: "Vector"},
	})
}

func bfsImpl(name, concrete string) plugin.Entry {
	return plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
		Name:       name,
		Implements: "traversal.bfs_iter",
		Params: []plugin.ConcreteParam{
			{Name: "graph", Concrete: concrete},
			{Name: "depth", Primitive: types.PrimitiveInt},
		},
		Returns: "NumpyVector",
		Fn: func(ctx context.Context, args []any) (any, error) {
			return &numpyVector{Values: []float64{0}}, nil
		},
	})
}

func newDispatcher(t *testing.T, reg *registry.Registry) *Dispatcher {
	t.Helper()
	return NewDispatcher(reg, logger.NewNop(), true)
}

func TestDispatchNoTranslationNeeded(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, bfsAbstract(), bfsImpl("nx.bfs_iter", "NetworkXGraph"))
	d := newDispatcher(t, reg)

	plan, bound, err := d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 2}, nil)
	require.NoError(t, err)
	require.Equal(t, "nx.bfs_iter", plan.Implementation)
	require.Equal(t, 0.0, plan.TotalCost)
	require.Empty(t, plan.Args[0].Steps)
	require.Equal(t, "NumpyVector", plan.Returns)
	require.Len(t, bound, 2)
}

func TestDispatchPrefersTranslationFreeCandidate(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t,
		plugin.NewTranslatorEntry(nxToScipy()),
		bfsAbstract(),
		bfsImpl("nx.bfs_iter", "NetworkXGraph"),
		bfsImpl("scipy.bfs_iter", "ScipyGraph"),
	)
	d := newDispatcher(t, reg)

	plan, _, err := d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 2}, nil)
	require.NoError(t, err)
	require.Equal(t, "nx.bfs_iter", plan.Implementation)
	require.Equal(t, 0.0, plan.TotalCost)
}

func TestDispatchForcesTranslation(t *testing.T) {
	t.Parallel()

	// Implementations exist only for NetworkX and Grblas; a Scipy argument
	// must translate. The one-hop route to Grblas beats none to NetworkX.
	reg := newTestRegistry(t,
		plugin.NewTranslatorEntry(scipyToGrblas()),
		bfsAbstract(),
		bfsImpl("grblas.bfs_iter", "GrblasGraph"),
		bfsImpl("nx.bfs_iter", "NetworkXGraph"),
	)
	d := newDispatcher(t, reg)

	plan, _, err := d.Dispatch("traversal.bfs_iter", []any{&scipyGraph{}, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, "grblas.bfs_iter", plan.Implementation)
	require.Equal(t, []string{"scipy_to_grblas"}, plan.Args[0].Steps)
	require.Equal(t, 1.0, plan.TotalCost)
}

func TestDispatchEqualCostTieBreaksOnCandidateName(t *testing.T) {
	t.Parallel()

	back := &plugin.Translator{
		Name:   "scipy_to_nx",
		Source: "ScipyGraph",
		Target: "NetworkXGraph",
		Cost:   1,
		Fn: func(ctx context.Context, value any) (any, error) {
			return &nxGraph{}, nil
		},
	}

	reg := newTestRegistry(t,
		plugin.NewTranslatorEntry(scipyToGrblas()),
		plugin.NewTranslatorEntry(back),
		bfsAbstract(),
		bfsImpl("grblas.bfs_iter", "GrblasGraph"),
		bfsImpl("nx.bfs_iter", "NetworkXGraph"),
	)
	d := newDispatcher(t, reg)

	// Both candidates cost 1 with one hop; "grblas.bfs_iter" sorts first.
	plan, _, err := d.Dispatch("traversal.bfs_iter", []any{&scipyGraph{}, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, "grblas.bfs_iter", plan.Implementation)
}

func TestDispatchPlanCostIsMinimalPerCandidate(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t,
		plugin.NewTranslatorEntry(nxToScipy()),
		plugin.NewTranslatorEntry(scipyToGrblas()),
		bfsAbstract(),
		bfsImpl("grblas.bfs_iter", "GrblasGraph"),
	)
	d := newDispatcher(t, reg)

	plan, _, err := d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 1}, nil)
	require.NoError(t, err)

	// The plan's total cost must equal the planner's answer for the same
	// source and target.
	source := mustConcrete(t, reg, "NetworkXGraph")
	chain, err := PlanTranslation(reg, source, types.Spec("Graph", "GrblasGraph", nil),
		types.Properties{"is_directed": "false"})
	require.NoError(t, err)
	require.Equal(t, chain.Cost, plan.TotalCost)
}

func TestDispatchKeywordArgumentsAndDefaults(t *testing.T) {
	t.Parallel()

	abstract := plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
		Name: "centrality.score",
		Params: []plugin.AbstractParam{
			{Name: "graph", Abstract: "Graph"},
			{Name: "damping", Primitive: types.PrimitiveFloat, Default: 0.85, HasDefault: true},
		},
		Returns: plugin.AbstractReturn{Abstract: "Vector"},
	})
	impl := plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
		Name:       "nx.score",
		Implements: "centrality.score",
		Params: []plugin.ConcreteParam{
			{Name: "graph", Concrete: "NetworkXGraph"},
			{Name: "damping", Primitive: types.PrimitiveFloat},
		},
		Returns: "NumpyVector",
		Fn: func(ctx context.Context, args []any) (any, error) {
			return &numpyVector{}, nil
		},
	})

	reg := newTestRegistry(t, abstract, impl)
	d := newDispatcher(t, reg)

	_, bound, err := d.Dispatch("centrality.score", []any{&nxGraph{}}, nil)
	require.NoError(t, err)
	require.Equal(t, 0.85, bound[1])

	_, bound, err = d.Dispatch("centrality.score", []any{&nxGraph{}},
		map[string]any{"damping": 0.5})
	require.NoError(t, err)
	require.Equal(t, 0.5, bound[1])
}

func TestDispatchSignatureErrors(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, bfsAbstract(), bfsImpl("nx.bfs_iter", "NetworkXGraph"))
	d := newDispatcher(t, reg)

	var sigErr *metagrapherrors.SignatureError

	_, _, err := d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 1, 2}, nil)
	require.ErrorAs(t, err, &sigErr)

	_, _, err = d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}}, nil)
	require.ErrorAs(t, err, &sigErr)

	_, _, err = d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 1},
		map[string]any{"depth": 2})
	require.ErrorAs(t, err, &sigErr)

	_, _, err = d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 1},
		map[string]any{"unknown": 1})
	require.ErrorAs(t, err, &sigErr)

	_, _, err = d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, "two"}, nil)
	require.ErrorAs(t, err, &sigErr)
}

func TestDispatchDisconnectedGraphExplains(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, bfsAbstract(), bfsImpl("grblas.bfs_iter", "GrblasGraph"))
	d := newDispatcher(t, reg)

	_, _, err := d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 1}, nil)

	var noAlgo *metagrapherrors.NoConcreteAlgorithm
	require.ErrorAs(t, err, &noAlgo)
	require.Len(t, noAlgo.Rejections, 1)
	require.Equal(t, "grblas.bfs_iter", noAlgo.Rejections[0].Candidate)
	require.Equal(t, "graph", noAlgo.Rejections[0].Parameter)
	require.Contains(t, err.Error(), "no translation path")
}

func TestDispatchPropertyConstraintRejectsCandidate(t *testing.T) {
	t.Parallel()

	abstract := plugin.NewAbstractAlgorithmEntry(&plugin.AbstractAlgorithm{
		Name: "clustering.components",
		Params: []plugin.AbstractParam{
			{
				Name:     "graph",
				Abstract: "Graph",
				Require:  types.Properties{"is_directed": "false"},
			},
		},
		Returns: plugin.AbstractReturn{Abstract: "Vector"},
	})
	impl := plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
		Name:       "nx.components",
		Implements: "clustering.components",
		Params: []plugin.ConcreteParam{
			{Name: "graph", Concrete: "NetworkXGraph"},
		},
		Returns: "NumpyVector",
		Fn: func(ctx context.Context, args []any) (any, error) {
			return &numpyVector{}, nil
		},
	})

	reg := newTestRegistry(t, abstract, impl)
	d := newDispatcher(t, reg)

	// Undirected input satisfies the constraint.
	_, _, err := d.Dispatch("clustering.components", []any{&nxGraph{Directed: false}}, nil)
	require.NoError(t, err)

	// Directed input cannot: no translator can flip directedness here.
	_, _, err = d.Dispatch("clustering.components", []any{&nxGraph{Directed: true}}, nil)
	var noAlgo *metagrapherrors.NoConcreteAlgorithm
	require.ErrorAs(t, err, &noAlgo)
}

func TestDispatchUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	d := newDispatcher(t, reg)

	_, _, err := d.Dispatch("missing.algorithm", nil, nil)
	var noAlgo *metagrapherrors.NoConcreteAlgorithm
	require.ErrorAs(t, err, &noAlgo)
}

func TestDispatchDoesNotInvokePluginCode(t *testing.T) {
	t.Parallel()

	invoked := false
	tracked := &plugin.Translator{
		Name:   "nx_to_scipy_tracked",
		Source: "NetworkXGraph",
		Target: "ScipyGraph",
		Cost:   1,
		Fn: func(ctx context.Context, value any) (any, error) {
			invoked = true
			return &scipyGraph{}, nil
		},
	}
	impl := plugin.NewConcreteAlgorithmEntry(&plugin.ConcreteAlgorithm{
		Name:       "scipy.bfs_iter",
		Implements: "traversal.bfs_iter",
		Params: []plugin.ConcreteParam{
			{Name: "graph", Concrete: "ScipyGraph"},
			{Name: "depth", Primitive: types.PrimitiveInt},
		},
		Returns: "NumpyVector",
		Fn: func(ctx context.Context, args []any) (any, error) {
			invoked = true
			return &numpyVector{}, nil
		},
	})

	reg := newTestRegistry(t, plugin.NewTranslatorEntry(tracked), bfsAbstract(), impl)
	d := newDispatcher(t, reg)

	_, _, err := d.Dispatch("traversal.bfs_iter", []any{&nxGraph{}, 1}, nil)
	require.NoError(t, err)
	require.False(t, invoked, "dispatch must not run translators or implementations")
}
