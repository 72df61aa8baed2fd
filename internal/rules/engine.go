// internal/rules/engine.go
package rules

import (
	"context"
	"sort"
	"sync"

	"github.com/haldane/riskgate/internal/types"
)

/*
 * Rule-set evaluation engine.
 *
 * Evaluates an ordered set of rules against one shared context with a
 * bounded worker pool. The context is parsed once and shared read-only
 * across workers; each rule's evaluation is independent, so the pool adds
 * no coordination beyond the semaphore.
 *
 * Ordering: Rules run in priority order (descending), equal priorities
 * keeping their given order via stable sort. Results come back in that
 * same order regardless of worker completion order.
 *
 * Cancellation: The dispatcher checks ctx between rule dispatches. On
 * cancellation it waits for in-flight evaluations, then returns the
 * context error with no partial results.
 */

// DefaultEvalWorkers bounds concurrent rule evaluations per request when no
// explicit worker count is configured.
const DefaultEvalWorkers = 8

// RuleSetEntry is one rule as the engine consumes it: identity, ordering
// priority, and logic.
type RuleSetEntry struct {
	RuleID   types.RuleID
	Name     string
	Priority int
	Logic    *RuleLogic
}

// RuleEvaluation pairs a rule's identity with its evaluation outcome.
type RuleEvaluation struct {
	RuleID   types.RuleID     `json:"ruleId"`
	Name     string           `json:"name"`
	Priority int              `json:"priority"`
	Result   EvaluationResult `json:"result"`
}

// Engine evaluates rule sets with bounded concurrency.
type Engine struct {
	workers int
}

// NewEngine creates an engine with the given worker bound. Non-positive
// counts fall back to DefaultEvalWorkers.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = DefaultEvalWorkers
	}
	return &Engine{workers: workers}
}

// EvaluateAll evaluates every rule in the set against one context and
// returns results in priority order (descending, stable). The input slice
// is not modified. Errors are limited to a bad context or cancellation;
// individual rules cannot fail.
func (e *Engine) EvaluateAll(ctx context.Context, set []RuleSetEntry, evalCtx types.Context) ([]RuleEvaluation, error) {
	data, err := ParseContext(evalCtx)
	if err != nil {
		return nil, err
	}

	ordered := make([]RuleSetEntry, len(set))
	copy(ordered, set)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	results := make([]RuleEvaluation, len(ordered))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i := range ordered {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, entry RuleSetEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			res := emptyResult()
			if entry.Logic != nil {
				res = evaluateParsed(entry.Logic, data)
			}
			results[idx] = RuleEvaluation{
				RuleID:   entry.RuleID,
				Name:     entry.Name,
				Priority: entry.Priority,
				Result:   res,
			}
		}(i, ordered[i])
	}

	wg.Wait()
	return results, nil
}
