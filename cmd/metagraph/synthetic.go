package main

import (
	"fmt"

	adjacencyplugin "github.com/metagraph-dev/metagraph/internal/plugins/adjacency"
	builtinplugin "github.com/metagraph-dev/metagraph/internal/plugins/builtin"
	csrplugin "github.com/metagraph-dev/metagraph/internal/plugins/csr"
	edgelistplugin "github.com/metagraph-dev/metagraph/internal/plugins/edgelist"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// probeValue returns an empty instance of a builtin concrete type, used to
// drive plan-only dispatch from the command line.
func probeValue(concrete string) (any, bool) {
	switch concrete {
	case edgelistplugin.TypeName:
		return &edgelistplugin.Graph{}, true
	case adjacencyplugin.TypeName:
		return adjacencyplugin.NewGraph(false), true
	case csrplugin.TypeName:
		return &csrplugin.Graph{Offsets: []int{0}}, true
	case builtinplugin.TypeNodeMap:
		return &builtinplugin.NodeMap{Values: map[int]float64{}}, true
	case builtinplugin.TypeNodeSet:
		return &builtinplugin.NodeSet{Members: map[int]struct{}{}}, true
	case builtinplugin.TypeVector:
		return &builtinplugin.Vector{}, true
	default:
		return nil, false
	}
}

// syntheticArgs builds a positional argument list for plan-only dispatch:
// typed parameters consume the --input type names in declaration order,
// scalars take their declared default or a zero value.
func syntheticArgs(app *appContext, algorithm string, inputs []string) ([]any, error) {
	abstract, ok := app.registry.AbstractAlgorithm(algorithm)
	if !ok {
		return nil, metagrapherrors.NewNoConcreteAlgorithm(algorithm, nil)
	}

	args := make([]any, 0, len(abstract.Params))
	next := 0
	for _, param := range abstract.Params {
		if param.IsTyped() {
			if next >= len(inputs) {
				return nil, metagrapherrors.NewSignatureError(algorithm,
					fmt.Sprintf("missing --input for typed parameter %q", param.Name))
			}
			value, ok := probeValue(inputs[next])
			if !ok {
				return nil, metagrapherrors.NewNoMatchingTypeError(inputs[next])
			}
			args = append(args, value)
			next++
			continue
		}

		if param.HasDefault {
			args = append(args, param.Default)
			continue
		}
		args = append(args, zeroPrimitive(param.Primitive))
	}

	if next < len(inputs) {
		return nil, metagrapherrors.NewSignatureError(algorithm,
			fmt.Sprintf("%d --input values given, algorithm has %d typed parameters", len(inputs), next))
	}
	return args, nil
}

func zeroPrimitive(p types.Primitive) any {
	switch p {
	case types.PrimitiveInt:
		return 0
	case types.PrimitiveFloat:
		return 0.0
	case types.PrimitiveBool:
		return false
	default:
		return ""
	}
}
