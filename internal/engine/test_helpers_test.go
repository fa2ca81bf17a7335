package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metagraph-dev/metagraph/internal/logger"
	"github.com/metagraph-dev/metagraph/internal/plugin"
	"github.com/metagraph-dev/metagraph/internal/registry"
	"github.com/metagraph-dev/metagraph/internal/types"
)

// Test fixture: three interchangeable graph representations and a vector
// type, wired the way backend plugins would register them.

type nxGraph struct{ Directed bool }

type scipyGraph struct{ Directed bool }

type grblasGraph struct{ Directed bool }

type numpyVector struct{ Values []float64 }

func graphTypeEntries() []plugin.Entry {
	graphInfo := func(directed bool) types.TypeInfo {
		value := "false"
		if directed {
			value = "true"
		}
		return types.TypeInfo{Abstract: types.Properties{"is_directed": value}}
	}

	return []plugin.Entry{
		plugin.NewAbstractTypeEntry(&types.AbstractType{
			Name: "Graph",
			Properties: []types.PropertySpec{
				{Name: "is_directed", Allowed: []string{"true", "false"}, Default: "false"},
			},
		}),
		plugin.NewAbstractTypeEntry(&types.AbstractType{Name: "Vector"}),
		plugin.NewConcreteTypeEntry(&types.ConcreteType{
			Name:     "NetworkXGraph",
			Abstract: "Graph",
			IsTypeclass: func(value any) bool {
				_, ok := value.(*nxGraph)
				return ok
			},
			ExtractTypeInfo: func(value any) types.TypeInfo {
				return graphInfo(value.(*nxGraph).Directed)
			},
		}),
		plugin.NewConcreteTypeEntry(&types.ConcreteType{
			Name:     "ScipyGraph",
			Abstract: "Graph",
			IsTypeclass: func(value any) bool {
				_, ok := value.(*scipyGraph)
				return ok
			},
			ExtractTypeInfo: func(value any) types.TypeInfo {
				return graphInfo(value.(*scipyGraph).Directed)
			},
		}),
		plugin.NewConcreteTypeEntry(&types.ConcreteType{
			Name:     "GrblasGraph",
			Abstract: "Graph",
			IsTypeclass: func(value any) bool {
				_, ok := value.(*grblasGraph)
				return ok
			},
			ExtractTypeInfo: func(value any) types.TypeInfo {
				return graphInfo(value.(*grblasGraph).Directed)
			},
		}),
		plugin.NewConcreteTypeEntry(&types.ConcreteType{
			Name:     "NumpyVector",
			Abstract: "Vector",
			IsTypeclass: func(value any) bool {
				_, ok := value.(*numpyVector)
				return ok
			},
		}),
	}
}

func nxToScipy() *plugin.Translator {
	return &plugin.Translator{
		Name:   "nx_to_scipy",
		Source: "NetworkXGraph",
		Target: "ScipyGraph",
		Cost:   1,
		Fn: func(ctx context.Context, value any) (any, error) {
			return &scipyGraph{Directed: value.(*nxGraph).Directed}, nil
		},
	}
}

func scipyToGrblas() *plugin.Translator {
	return &plugin.Translator{
		Name:   "scipy_to_grblas",
		Source: "ScipyGraph",
		Target: "GrblasGraph",
		Cost:   1,
		Fn: func(ctx context.Context, value any) (any, error) {
			return &grblasGraph{Directed: value.(*scipyGraph).Directed}, nil
		},
	}
}

func newTestRegistry(t *testing.T, extra ...plugin.Entry) *registry.Registry {
	t.Helper()

	entries := graphTypeEntries()
	entries = append(entries, extra...)

	reg := registry.New(logger.NewNop())
	require.NoError(t, reg.Register(plugin.ProviderFunc(func() []plugin.Entry { return entries })))
	require.NoError(t, reg.Finalize())
	return reg
}

func mustConcrete(t *testing.T, reg *registry.Registry, name string) *types.ConcreteType {
	t.Helper()
	ct, ok := reg.System().Concrete(name)
	require.True(t, ok, "concrete type %s not registered", name)
	return ct
}
