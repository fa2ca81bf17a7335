package engine

import (
	"fmt"

	"github.com/metagraph-dev/metagraph/internal/logger"
	"github.com/metagraph-dev/metagraph/internal/plugin"
	"github.com/metagraph-dev/metagraph/internal/registry"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// Dispatcher resolves abstract algorithm calls against concrete argument
// types and executes the resulting plans. It never invokes plugin code during
// resolution; translators and implementations run only in Execute.
type Dispatcher struct {
	reg          *registry.Registry
	log          *logger.Logger
	strictReturn bool
}

// NewDispatcher creates a dispatcher bound to a finalized registry.
func NewDispatcher(reg *registry.Registry, log *logger.Logger, strictReturn bool) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{reg: reg, log: log, strictReturn: strictReturn}
}

// Registry exposes the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.reg
}

// argClass is the classification of one bound argument.
type argClass struct {
	concrete  *types.ConcreteType
	props     types.Properties
	primitive types.Primitive
}

// Dispatch binds the call, classifies each argument, enumerates candidate
// implementations, and returns the cheapest plan along with the bound
// argument list in declared parameter order.
func (d *Dispatcher) Dispatch(name string, args []any, kwargs map[string]any) (*Plan, []any, error) {
	abstract, ok := d.reg.AbstractAlgorithm(name)
	if !ok {
		return nil, nil, metagrapherrors.NewNoConcreteAlgorithm(name, nil)
	}

	bound, err := d.bind(abstract, args, kwargs)
	if err != nil {
		return nil, nil, err
	}

	classes, err := d.classify(abstract, bound)
	if err != nil {
		return nil, nil, err
	}

	plan, err := d.enumerate(abstract, classes)
	if err != nil {
		return nil, nil, err
	}
	return plan, bound, nil
}

// bind resolves positional and keyword arguments against the declared
// parameter list, applying defaults and validating arity.
func (d *Dispatcher) bind(abstract *plugin.AbstractAlgorithm, args []any, kwargs map[string]any) ([]any, error) {
	params := abstract.Params
	if len(args) > len(params) {
		return nil, metagrapherrors.NewSignatureError(abstract.Name,
			fmt.Sprintf("takes %d arguments, got %d", len(params), len(args)))
	}

	bound := make([]any, len(params))
	set := make([]bool, len(params))
	for i, arg := range args {
		bound[i] = arg
		set[i] = true
	}

	for key, value := range kwargs {
		idx := -1
		for i, p := range params {
			if p.Name == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, metagrapherrors.NewSignatureError(abstract.Name,
				fmt.Sprintf("unknown parameter %q", key))
		}
		if set[idx] {
			return nil, metagrapherrors.NewSignatureError(abstract.Name,
				fmt.Sprintf("parameter %q given twice", key))
		}
		bound[idx] = value
		set[idx] = true
	}

	for i, p := range params {
		if set[i] {
			continue
		}
		if !p.HasDefault {
			return nil, metagrapherrors.NewSignatureError(abstract.Name,
				fmt.Sprintf("missing required parameter %q", p.Name))
		}
		bound[i] = p.Default
	}

	return bound, nil
}

// classify infers each bound argument's concrete type and property vectors.
// Scalars fall back to primitive classification; placeholders classify by
// their declared concrete type so lazy calls compose without materializing.
func (d *Dispatcher) classify(abstract *plugin.AbstractAlgorithm, bound []any) ([]argClass, error) {
	system := d.reg.System()
	classes := make([]argClass, len(bound))

	for i, value := range bound {
		param := abstract.Params[i]

		if ph, ok := value.(*Placeholder); ok {
			cls, err := d.classifyPlaceholder(ph)
			if err != nil {
				return nil, err
			}
			classes[i] = cls
			continue
		}

		if !param.IsTyped() {
			primitive := types.ClassifyPrimitive(value)
			if !types.PrimitiveAccepts(param.Primitive, primitive) {
				return nil, metagrapherrors.NewSignatureError(abstract.Name,
					fmt.Sprintf("parameter %q expects %s, got %s", param.Name, param.Primitive, primitive))
			}
			classes[i] = argClass{primitive: primitive}
			continue
		}

		ct, info, err := system.InferInfo(value)
		if err != nil {
			return nil, err
		}
		classes[i] = argClass{concrete: ct, props: info.Combined()}
	}

	return classes, nil
}

func (d *Dispatcher) classifyPlaceholder(ph *Placeholder) (argClass, error) {
	if ph.ConcreteType() == "" {
		return argClass{primitive: types.PrimitiveAny}, nil
	}
	ct, ok := d.reg.System().Concrete(ph.ConcreteType())
	if !ok {
		return argClass{}, metagrapherrors.NewNoMatchingTypeError(ph.ConcreteType())
	}
	props := types.Properties{}
	if at, ok := d.reg.System().Abstract(ct.Abstract); ok {
		props = at.Defaults()
	}
	return argClass{concrete: ct, props: props}, nil
}

// enumerate costs every candidate implementation and picks the minimum.
// Candidates are visited in sorted name order; a strictly better cost, or an
// equal cost with strictly fewer hops, displaces the incumbent, so ties
// resolve to the lexicographically smallest candidate identifier.
func (d *Dispatcher) enumerate(abstract *plugin.AbstractAlgorithm, classes []argClass) (*Plan, error) {
	impls := d.reg.Implementations(abstract.Name)
	if len(impls) == 0 {
		return nil, metagrapherrors.NewNoConcreteAlgorithm(abstract.Name, nil)
	}

	var best *Plan
	bestHops := 0
	var rejections []metagrapherrors.CandidateRejection

	for _, impl := range impls {
		plan, hops, rejection := d.costCandidate(abstract, impl, classes)
		if rejection != nil {
			rejections = append(rejections, *rejection)
			continue
		}
		if best == nil || plan.TotalCost < best.TotalCost ||
			(plan.TotalCost == best.TotalCost && hops < bestHops) {
			best = plan
			bestHops = hops
		}
	}

	if best == nil {
		return nil, metagrapherrors.NewNoConcreteAlgorithm(abstract.Name, rejections)
	}
	return best, nil
}

// costCandidate asks the planner for the cheapest chain for every typed
// parameter. The candidate is rejected if any parameter is unreachable.
func (d *Dispatcher) costCandidate(abstract *plugin.AbstractAlgorithm, impl *plugin.ConcreteAlgorithm, classes []argClass) (*Plan, int, *metagrapherrors.CandidateRejection) {
	argPlans := make([]ArgPlan, len(impl.Params))
	totalCost := 0.0
	totalHops := 0

	for i, cp := range impl.Params {
		ap := abstract.Params[i]
		cls := classes[i]

		if !cp.IsTyped() {
			argPlans[i] = ArgPlan{Param: cp.Name, Source: cls.primitive.String()}
			continue
		}

		if cls.concrete == nil {
			return nil, 0, &metagrapherrors.CandidateRejection{
				Candidate: impl.Name,
				Parameter: cp.Name,
				Reason:    "scalar argument where a typed value is required",
			}
		}
		if cls.concrete.Abstract != ap.Abstract {
			return nil, 0, &metagrapherrors.CandidateRejection{
				Candidate: impl.Name,
				Parameter: cp.Name,
				Reason: fmt.Sprintf("argument is %s (%s), parameter requires %s",
					cls.concrete.Name, cls.concrete.Abstract, ap.Abstract),
			}
		}

		// The parameter's constraints are the abstract declaration's
		// intersected with the implementation's refinement.
		spec := cp.Spec(ap.Abstract)
		spec.Require = ap.Require.Merge(cp.Require)

		chain, err := PlanTranslation(d.reg, cls.concrete, spec, cls.props)
		if err != nil {
			return nil, 0, &metagrapherrors.CandidateRejection{
				Candidate: impl.Name,
				Parameter: cp.Name,
				Reason:    err.Error(),
			}
		}

		argPlans[i] = ArgPlan{
			Param:  cp.Name,
			Source: cls.concrete.Name,
			Steps:  chain.StepNames(),
			Path:   chain.Path(),
			Cost:   chain.Cost,
		}
		totalCost += chain.Cost
		totalHops += chain.Hops()
	}

	return &Plan{
		Algorithm:      abstract.Name,
		Implementation: impl.Name,
		Args:           argPlans,
		TotalCost:      totalCost,
		Returns:        impl.Returns,
	}, totalHops, nil
}
