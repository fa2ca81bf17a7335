package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

type alphaValue struct{ directed bool }

type betaValue struct{}

func testSystem(t *testing.T) *System {
	t.Helper()

	s := NewSystem()
	require.NoError(t, s.RegisterAbstract(&AbstractType{
		Name: "Graph",
		Properties: []PropertySpec{
			{Name: "is_directed", Allowed: []string{"true", "false"}, Default: "false"},
		},
	}))
	require.NoError(t, s.RegisterConcrete(&ConcreteType{
		Name:     "AlphaGraph",
		Abstract: "Graph",
		IsTypeclass: func(value any) bool {
			_, ok := value.(*alphaValue)
			return ok
		},
		ExtractTypeInfo: func(value any) TypeInfo {
			v := value.(*alphaValue)
			directed := "false"
			if v.directed {
				directed = "true"
			}
			return TypeInfo{Abstract: Properties{"is_directed": directed}}
		},
	}))
	require.NoError(t, s.RegisterConcrete(&ConcreteType{
		Name:     "BetaGraph",
		Abstract: "Graph",
		IsTypeclass: func(value any) bool {
			_, ok := value.(*betaValue)
			return ok
		},
	}))
	return s
}

func TestInferSingleClaimant(t *testing.T) {
	t.Parallel()

	s := testSystem(t)
	ct, err := s.Infer(&alphaValue{})
	require.NoError(t, err)
	require.Equal(t, "AlphaGraph", ct.Name)
}

func TestInferNoMatch(t *testing.T) {
	t.Parallel()

	s := testSystem(t)
	_, err := s.Infer(42)

	var noMatch *metagrapherrors.NoMatchingTypeError
	require.ErrorAs(t, err, &noMatch)
}

func TestInferAmbiguous(t *testing.T) {
	t.Parallel()

	s := testSystem(t)
	require.NoError(t, s.RegisterConcrete(&ConcreteType{
		Name:     "GreedyGraph",
		Abstract: "Graph",
		IsTypeclass: func(value any) bool {
			_, ok := value.(*alphaValue)
			return ok
		},
	}))

	_, err := s.Infer(&alphaValue{})
	var ambiguous *metagrapherrors.AmbiguousTypeError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, []string{"AlphaGraph", "GreedyGraph"}, ambiguous.Claimants)
}

func TestInferInfoLayersDefaults(t *testing.T) {
	t.Parallel()

	s := testSystem(t)

	// BetaGraph has no extractor; the abstract default fills in.
	ct, info, err := s.InferInfo(&betaValue{})
	require.NoError(t, err)
	require.Equal(t, "BetaGraph", ct.Name)
	require.Equal(t, "false", info.Abstract["is_directed"])

	// AlphaGraph reports its own value over the default.
	_, info, err = s.InferInfo(&alphaValue{directed: true})
	require.NoError(t, err)
	require.Equal(t, "true", info.Abstract["is_directed"])
}

func TestRegisterDuplicateFails(t *testing.T) {
	t.Parallel()

	s := testSystem(t)
	err := s.RegisterAbstract(&AbstractType{Name: "Graph"})
	var regErr *metagrapherrors.RegistryError
	require.ErrorAs(t, err, &regErr)

	err = s.RegisterConcrete(&ConcreteType{
		Name:        "AlphaGraph",
		Abstract:    "Graph",
		IsTypeclass: func(any) bool { return false },
	})
	require.ErrorAs(t, err, &regErr)
}

func TestValidateProperties(t *testing.T) {
	t.Parallel()

	s := testSystem(t)
	at, ok := s.Abstract("Graph")
	require.True(t, ok)

	require.NoError(t, at.ValidateProperties(Properties{"is_directed": "true"}))
	require.Error(t, at.ValidateProperties(Properties{"is_directed": "sideways"}))
	require.Error(t, at.ValidateProperties(Properties{"unknown": "x"}))
}

func TestConcreteNamesSorted(t *testing.T) {
	t.Parallel()

	s := testSystem(t)
	require.Equal(t, []string{"AlphaGraph", "BetaGraph"}, s.ConcreteNames())
	require.Equal(t, []string{"AlphaGraph", "BetaGraph"}, s.ConcreteNamesOf("Graph"))
	require.Empty(t, s.ConcreteNamesOf("NodeMap"))
}

func TestClassifyPrimitive(t *testing.T) {
	t.Parallel()

	require.Equal(t, PrimitiveInt, ClassifyPrimitive(7))
	require.Equal(t, PrimitiveFloat, ClassifyPrimitive(0.5))
	require.Equal(t, PrimitiveBool, ClassifyPrimitive(true))
	require.Equal(t, PrimitiveString, ClassifyPrimitive("x"))
	require.Equal(t, PrimitiveNone, ClassifyPrimitive(&alphaValue{}))

	require.True(t, PrimitiveAccepts(PrimitiveFloat, PrimitiveInt))
	require.False(t, PrimitiveAccepts(PrimitiveInt, PrimitiveFloat))
	require.True(t, PrimitiveAccepts(PrimitiveAny, PrimitiveString))
	require.False(t, PrimitiveAccepts(PrimitiveAny, PrimitiveNone))
}
