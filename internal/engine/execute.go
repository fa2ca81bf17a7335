package engine

import (
	"context"
	"fmt"

	"github.com/metagraph-dev/metagraph/internal/plugin"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// Execute runs a plan against a fully bound argument list in declared
// parameter order: each argument's translation chain runs sequentially, the
// chosen implementation is invoked, and the return value's inferred type is
// checked against the declaration. Inputs are never mutated; translators
// construct new values.
func (d *Dispatcher) Execute(ctx context.Context, plan *Plan, bound []any) (any, error) {
	if plan == nil {
		return nil, metagrapherrors.NewExecutionError("", fmt.Errorf("plan is nil"))
	}
	impl, err := d.implementation(plan)
	if err != nil {
		return nil, err
	}
	if len(bound) != len(plan.Args) {
		return nil, metagrapherrors.NewExecutionError(plan.Fingerprint(),
			fmt.Errorf("plan expects %d arguments, got %d", len(plan.Args), len(bound)))
	}

	translated := make([]any, len(bound))
	for i, value := range bound {
		current := value
		for _, stepName := range plan.Args[i].Steps {
			translator, ok := d.reg.Translator(stepName)
			if !ok {
				return nil, metagrapherrors.NewExecutionError(plan.Fingerprint(),
					fmt.Errorf("translator %q disappeared from registry", stepName))
			}
			next, err := translator.Fn(ctx, current)
			if err != nil {
				return nil, metagrapherrors.NewExecutionError(plan.Fingerprint(), err)
			}
			current = next
		}
		translated[i] = current
	}

	result, err := impl.Fn(ctx, translated)
	if err != nil {
		return nil, metagrapherrors.NewExecutionError(plan.Fingerprint(), err)
	}

	if plan.Returns != "" {
		if err := d.checkReturn(plan, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (d *Dispatcher) implementation(plan *Plan) (*plugin.ConcreteAlgorithm, error) {
	for _, candidate := range d.reg.Implementations(plan.Algorithm) {
		if candidate.Name == plan.Implementation {
			return candidate, nil
		}
	}
	return nil, metagrapherrors.NewExecutionError(plan.Fingerprint(),
		fmt.Errorf("implementation %q not registered for %s", plan.Implementation, plan.Algorithm))
}

func (d *Dispatcher) checkReturn(plan *Plan, result any) error {
	ct, err := d.reg.System().Infer(result)
	if err != nil || ct.Name != plan.Returns {
		got := "<unknown>"
		if ct != nil {
			got = ct.Name
		}
		mismatch := metagrapherrors.NewReturnTypeMismatch(plan.Implementation, plan.Returns, got)
		if d.strictReturn {
			return mismatch
		}
		d.log.Warn(mismatch.Error())
	}
	return nil
}

// DispatchAndExecute is the eager path: resolve, then run.
func (d *Dispatcher) DispatchAndExecute(ctx context.Context, name string, args []any, kwargs map[string]any) (any, error) {
	plan, bound, err := d.Dispatch(name, args, kwargs)
	if err != nil {
		return nil, err
	}
	return d.Execute(ctx, plan, bound)
}
