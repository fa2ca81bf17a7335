package engine

import (
	"container/heap"

	"github.com/metagraph-dev/metagraph/internal/plugin"
	"github.com/metagraph-dev/metagraph/internal/registry"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// TranslationChain is the least-cost sequence of translators from a source
// concrete type to one satisfying a target spec. A zero-length chain means
// the source already satisfies the target.
type TranslationChain struct {
	Source     string
	Steps      []*plugin.Translator
	Cost       float64
	Final      string
	FinalProps types.Properties
}

// Hops returns the number of translators in the chain.
func (c *TranslationChain) Hops() int {
	return len(c.Steps)
}

// StepNames returns the translator identifiers in order.
func (c *TranslationChain) StepNames() []string {
	names := make([]string, len(c.Steps))
	for i, step := range c.Steps {
		names[i] = step.Name
	}
	return names
}

// Path returns the concrete type names visited, source first.
func (c *TranslationChain) Path() []string {
	path := make([]string, 0, len(c.Steps)+1)
	path = append(path, c.Source)
	for _, step := range c.Steps {
		path = append(path, step.Target)
	}
	return path
}

// searchState is one Dijkstra frontier entry. Properties are part of the
// state because translators may reshape them, so the same concrete type can
// be reached with different vectors.
type searchState struct {
	concrete string
	props    types.Properties
	cost     float64
	hops     int
	pathID   string
	steps    []*plugin.Translator
	index    int
}

type searchHeap []*searchState

func (h searchHeap) Len() int { return len(h) }

func (h searchHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	if h[i].hops != h[j].hops {
		return h[i].hops < h[j].hops
	}
	return h[i].pathID < h[j].pathID
}

func (h searchHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *searchHeap) Push(x any) {
	state := x.(*searchState)
	state.index = len(*h)
	*h = append(*h, state)
}

func (h *searchHeap) Pop() any {
	old := *h
	n := len(old)
	state := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return state
}

// PlanTranslation computes the least-cost translation chain from the source
// concrete type to a concrete type satisfying the target spec, starting from
// the given property vector. Properties are recomputed at each hop using the
// translator's property rule. Equal-cost chains prefer fewer hops, then the
// lexicographically smallest sequence of translator identifiers.
func PlanTranslation(reg *registry.Registry, source *types.ConcreteType, target types.TypeSpec, props types.Properties) (*TranslationChain, error) {
	if source == nil {
		return nil, metagrapherrors.NewNoTranslationPath("<nil>", target.String())
	}
	if target.Abstract != "" && source.Abstract != target.Abstract {
		return nil, metagrapherrors.NewNoTranslationPath(source.Name, target.String())
	}

	start := &searchState{concrete: source.Name, props: props.Clone()}

	frontier := &searchHeap{}
	heap.Init(frontier)
	heap.Push(frontier, start)

	// Settled states never improve: the first pop of a (type, properties)
	// pair is its least-cost chain under the heap's tie-break order.
	settled := make(map[string]bool)

	for frontier.Len() > 0 {
		state := heap.Pop(frontier).(*searchState)

		stateKey := state.concrete + "|" + state.props.Key()
		if settled[stateKey] {
			continue
		}
		settled[stateKey] = true

		if target.SatisfiedBy(state.concrete, state.props) {
			return &TranslationChain{
				Source:     source.Name,
				Steps:      state.steps,
				Cost:       state.cost,
				Final:      state.concrete,
				FinalProps: state.props,
			}, nil
		}

		for _, edge := range reg.OutgoingFrom(state.concrete) {
			nextProps := edge.Propagate(state.props)
			nextKey := edge.Target + "|" + nextProps.Key()
			if settled[nextKey] {
				continue
			}

			steps := make([]*plugin.Translator, len(state.steps), len(state.steps)+1)
			copy(steps, state.steps)
			steps = append(steps, edge)

			pathID := state.pathID
			if pathID != "" {
				pathID += "/"
			}
			pathID += edge.Name

			heap.Push(frontier, &searchState{
				concrete: edge.Target,
				props:    nextProps,
				cost:     state.cost + edge.EdgeCost(),
				hops:     state.hops + 1,
				pathID:   pathID,
				steps:    steps,
			})
		}
	}

	return nil, metagrapherrors.NewNoTranslationPath(source.Name, target.String())
}
