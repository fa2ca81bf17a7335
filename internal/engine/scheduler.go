package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/metagraph-dev/metagraph/internal/logger"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// Scheduler executes a task DAG level by level, running independent tasks of
// a level concurrently on a bounded worker pool. Each node runs exactly once;
// shared upstream tasks are deduplicated by key. The only ordering guarantee
// is topological: siblings have no defined order.
type Scheduler struct {
	Parallel int
	Log      *logger.Logger
}

// NewScheduler creates a scheduler with the given worker count.
func NewScheduler(parallel int, log *logger.Logger) *Scheduler {
	if parallel <= 0 {
		parallel = 4
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{Parallel: parallel, Log: log}
}

// Run materializes the targets, returning their values in target order.
// A failed task cancels tasks that have not started; running tasks are not
// preempted.
func (s *Scheduler) Run(ctx context.Context, d *Dispatcher, targets ...*Placeholder) ([]any, error) {
	tasks := collect(targets)
	levels := levelize(tasks)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(map[string]any, len(tasks))
	var resultsMu sync.Mutex
	pool := make(chan struct{}, s.Parallel)

	for _, level := range levels {
		var wg sync.WaitGroup
		var levelErr error
		var once sync.Once

		for _, key := range level {
			task := tasks[key]
			wg.Add(1)
			go func(task *Placeholder) {
				defer wg.Done()

				if runCtx.Err() != nil {
					return
				}
				pool <- struct{}{}
				defer func() { <-pool }()
				if runCtx.Err() != nil {
					return
				}

				value, err := s.runTask(runCtx, d, task, results, &resultsMu)
				if err != nil {
					once.Do(func() {
						levelErr = err
						cancel()
					})
					return
				}

				resultsMu.Lock()
				results[task.Key()] = value
				resultsMu.Unlock()
			}(task)
		}

		wg.Wait()
		if levelErr != nil {
			return nil, levelErr
		}
		if runCtx.Err() != nil {
			return nil, metagrapherrors.NewExecutionError("", runCtx.Err())
		}
	}

	out := make([]any, len(targets))
	for i, target := range targets {
		out[i] = results[target.Key()]
	}
	return out, nil
}

func (s *Scheduler) runTask(ctx context.Context, d *Dispatcher, task *Placeholder, results map[string]any, mu *sync.Mutex) (any, error) {
	if task.IsConstant() {
		return task.value, nil
	}

	inputs := make([]any, len(task.args))
	mu.Lock()
	for i, arg := range task.args {
		inputs[i] = results[arg.Key()]
	}
	mu.Unlock()

	s.Log.WithFields(map[string]any{"task": task.Key(), "algorithm": task.plan.Algorithm}).Debug("executing task")
	return d.Execute(ctx, task.plan, inputs)
}

// collect gathers the transitive closure of tasks reachable from the
// targets, deduplicated by key.
func collect(targets []*Placeholder) map[string]*Placeholder {
	tasks := make(map[string]*Placeholder)
	var visit func(*Placeholder)
	visit = func(p *Placeholder) {
		if _, seen := tasks[p.Key()]; seen {
			return
		}
		tasks[p.Key()] = p
		for _, arg := range p.args {
			visit(arg)
		}
	}
	for _, target := range targets {
		visit(target)
	}
	return tasks
}

// levelize groups tasks into topological levels using Kahn's algorithm with
// sorted queues for deterministic output.
func levelize(tasks map[string]*Placeholder) [][]string {
	indegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))

	for key, task := range tasks {
		if _, ok := indegree[key]; !ok {
			indegree[key] = 0
		}
		for _, arg := range task.args {
			indegree[key]++
			dependents[arg.Key()] = append(dependents[arg.Key()], key)
		}
	}

	var queue []string
	for key, degree := range indegree {
		if degree == 0 {
			queue = append(queue, key)
		}
	}
	sort.Strings(queue)

	var levels [][]string
	for len(queue) > 0 {
		current := queue
		levels = append(levels, current)

		var next []string
		for _, key := range current {
			for _, dep := range dependents[key] {
				indegree[dep]--
				if indegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	return levels
}
