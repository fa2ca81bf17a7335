package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/metagraph-dev/metagraph/internal/config"
	"github.com/metagraph-dev/metagraph/internal/engine"
	"github.com/metagraph-dev/metagraph/internal/logger"
	"github.com/metagraph-dev/metagraph/internal/registry"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// Resolver binds a finalized registry to the user-facing call surface. In
// eager mode calls dispatch and execute; in lazy mode they return
// placeholders that materialize on demand.
type Resolver struct {
	reg   *registry.Registry
	disp  *engine.Dispatcher
	sched *engine.Scheduler
	lazy  bool
	log   *logger.Logger
}

// New creates a resolver over a finalized registry.
func New(reg *registry.Registry, cfg *config.Config, log *logger.Logger) (*Resolver, error) {
	if reg == nil || !reg.Finalized() {
		return nil, metagrapherrors.NewRegistryError("resolver requires a finalized registry", "", nil)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Resolver{
		reg:   reg,
		disp:  engine.NewDispatcher(reg, log, cfg.Settings.StrictReturnTypeCheck),
		sched: engine.NewScheduler(cfg.Settings.Parallel, log),
		lazy:  cfg.Settings.Lazy,
		log:   log,
	}, nil
}

// Registry exposes the bound registry.
func (r *Resolver) Registry() *registry.Registry {
	return r.reg
}

// Lazy reports whether calls defer into the task graph.
func (r *Resolver) Lazy() bool {
	return r.lazy
}

// Algo looks up an abstract algorithm by dotted name and returns a callable
// handle. Nested attribute navigation in the source API maps onto this
// dotted-name lookup.
func (r *Resolver) Algo(name string) (*Algo, error) {
	if _, ok := r.reg.AbstractAlgorithm(name); !ok {
		return nil, metagrapherrors.NewNoConcreteAlgorithm(name, nil)
	}
	return &Algo{resolver: r, name: name}, nil
}

// Groups returns the algorithm group names in sorted order.
func (r *Resolver) Groups() []string {
	seen := make(map[string]struct{})
	for _, name := range r.reg.AlgorithmNames() {
		if idx := strings.LastIndex(name, "."); idx > 0 {
			seen[name[:idx]] = struct{}{}
		}
	}
	groups := make([]string, 0, len(seen))
	for group := range seen {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

// AlgorithmsInGroup returns the algorithm names under a dotted group prefix.
func (r *Resolver) AlgorithmsInGroup(group string) []string {
	var names []string
	for _, name := range r.reg.AlgorithmNames() {
		if strings.HasPrefix(name, group+".") {
			names = append(names, name)
		}
	}
	return names
}

// Algo is a handle to one abstract algorithm.
type Algo struct {
	resolver *Resolver
	name     string
}

// Name returns the dotted algorithm name.
func (a *Algo) Name() string {
	return a.name
}

// Call dispatches and either executes (eager) or defers (lazy). Positional
// arguments only; use CallKw to pass keywords.
func (a *Algo) Call(ctx context.Context, args ...any) (any, error) {
	return a.CallKw(ctx, args, nil)
}

// CallKw dispatches with positional and keyword arguments.
func (a *Algo) CallKw(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	plan, bound, err := a.resolver.disp.Dispatch(a.name, args, kwargs)
	if err != nil {
		return nil, err
	}
	if a.resolver.lazy {
		return engine.Defer(plan, bound), nil
	}
	return a.resolver.disp.Execute(ctx, plan, bound)
}

// Plan dispatches without executing and returns the plan for inspection.
func (a *Algo) Plan(args ...any) (*engine.Plan, error) {
	return a.PlanKw(args, nil)
}

// PlanKw dispatches with keyword arguments without executing.
func (a *Algo) PlanKw(args []any, kwargs map[string]any) (*engine.Plan, error) {
	plan, _, err := a.resolver.disp.Dispatch(a.name, args, kwargs)
	return plan, err
}

// targetSpec resolves a translation target given either a descriptor
// reference or its name string.
func (r *Resolver) targetSpec(target any) (types.TypeSpec, error) {
	switch t := target.(type) {
	case *types.ConcreteType:
		return types.Spec(t.Abstract, t.Name, nil), nil
	case types.TypeSpec:
		return t, nil
	case string:
		if ct, ok := r.reg.System().Concrete(t); ok {
			return types.Spec(ct.Abstract, ct.Name, nil), nil
		}
		if _, ok := r.reg.System().Abstract(t); ok {
			return types.AbstractSpec(t, nil), nil
		}
		return types.TypeSpec{}, metagrapherrors.NewNoMatchingTypeError(t)
	default:
		return types.TypeSpec{}, metagrapherrors.NewNoMatchingTypeError(fmt.Sprintf("%T", target))
	}
}

// PlanTranslate returns the least-cost translation chain for a value without
// executing it.
func (r *Resolver) PlanTranslate(value any, target any) (*engine.TranslationChain, error) {
	spec, err := r.targetSpec(target)
	if err != nil {
		return nil, err
	}
	ct, info, err := r.reg.System().InferInfo(value)
	if err != nil {
		return nil, err
	}
	return engine.PlanTranslation(r.reg, ct, spec, info.Combined())
}

// Translate plans and executes a translation of a single value. The target
// may be a descriptor reference or a name string.
func (r *Resolver) Translate(ctx context.Context, value any, target any) (any, error) {
	chain, err := r.PlanTranslate(value, target)
	if err != nil {
		return nil, err
	}

	current := value
	for _, step := range chain.Steps {
		next, err := step.Fn(ctx, current)
		if err != nil {
			return nil, metagrapherrors.NewExecutionError(step.Name, err)
		}
		current = next
	}
	return current, nil
}

// Compute materializes a placeholder depth-first.
func (r *Resolver) Compute(ctx context.Context, ph *engine.Placeholder) (any, error) {
	return ph.Compute(ctx, r.disp)
}

// ComputeAll materializes several placeholders through the scheduler; shared
// upstream tasks evaluate once.
func (r *Resolver) ComputeAll(ctx context.Context, phs ...*engine.Placeholder) ([]any, error) {
	return r.sched.Run(ctx, r.disp, phs...)
}

// Wrap constructs a concrete value from raw library data via a registered
// wrapper.
func (r *Resolver) Wrap(abstract, wrapper string, args ...any) (any, error) {
	w, ok := r.reg.Wrapper(abstract, wrapper)
	if !ok {
		return nil, metagrapherrors.NewNoMatchingTypeError(abstract + "." + wrapper)
	}
	return w.Build(args...)
}

// AbstractType navigates to an abstract type descriptor.
func (r *Resolver) AbstractType(name string) (*types.AbstractType, bool) {
	return r.reg.System().Abstract(name)
}

// ConcreteType navigates to a concrete type descriptor.
func (r *Resolver) ConcreteType(name string) (*types.ConcreteType, bool) {
	return r.reg.System().Concrete(name)
}
