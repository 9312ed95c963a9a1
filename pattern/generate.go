package pattern

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/katalvlaran/costsat/pqueue"
	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/task"
)

// Statistics summarizes one Generate run.
type Statistics struct {
	// PatternEvaluations counts candidate patterns that reached the
	// usefulness test.
	PatternEvaluations int

	// GeneratedPatterns counts all materialized candidate patterns.
	GeneratedPatterns int

	// SelectedPatterns counts the projections actually built.
	SelectedPatterns int

	// MaxGeneratedPatternSize is the largest materialized pattern size.
	MaxGeneratedPatternSize int

	// CollectionSize is the summed abstract state count of the selected
	// projections.
	CollectionSize int64

	// Restarts counts generator restarts, including the first pass.
	Restarts int

	// DeadEnds counts the partial-state dead ends collected by the
	// evaluator (DeadEndsNew treatments only).
	DeadEnds int

	// PatternTime, ProjectionTime, and EvaluationTime break the wall
	// clock down into pattern enumeration, evaluator construction, and
	// usefulness evaluation.
	PatternTime    time.Duration
	ProjectionTime time.Duration
	EvaluationTime time.Duration
}

// Collection is the outcome of a pattern search: the selected
// projections, the per-restart orders over them, and the remaining cost
// vector after saturation.
type Collection struct {
	projections []*projection.Projection
	orders      [][]int
	remaining   []int
	stats       Statistics
}

// Projections returns the selected projections in selection order.
func (c *Collection) Projections() []*projection.Projection { return c.projections }

// Abstractions returns the selected projections behind the Abstraction
// capability, ready for cost partitioning.
func (c *Collection) Abstractions() []projection.Abstraction {
	out := make([]projection.Abstraction, len(c.projections))
	for i, p := range c.projections {
		out[i] = p
	}

	return out
}

// Patterns returns the selected patterns in selection order.
func (c *Collection) Patterns() []projection.Pattern {
	out := make([]projection.Pattern, len(c.projections))
	for i, p := range c.projections {
		out[i] = p.Pattern()
	}

	return out
}

// StoredOrders returns, per restart that added projections, the
// positions of the projections it added (empty unless StoreOrders).
func (c *Collection) StoredOrders() [][]int { return c.orders }

// RemainingCosts returns the cost vector left after subtracting every
// selected projection's saturated costs (the original costs when
// Saturate was off).
func (c *Collection) RemainingCosts() []int { return c.remaining }

// Stats returns the run statistics.
func (c *Collection) Stats() Statistics { return c.stats }

// driver carries the mutable state of one Generate run.
type driver struct {
	t      *task.Task
	opts   Options
	logger *slog.Logger

	gen       *generator
	queue     pqueue.AdaptiveQueue
	deadEnds  deadEndCollection
	seen      map[string]bool // pattern dedup across restarts
	used      *pairMatrix
	remaining []int
	domains   []int

	coll *Collection
}

// Generate runs the filtered systematic pattern search and returns the
// selected projection collection.
//
// The loop restarts the generator until a restart adds no projection,
// a collection budget is hit, or the overall deadline expires. Inside a
// restart, candidate patterns are served in bucket order and each one
// passes through dedup, size caps, the free-operator filter, and the
// usefulness evaluation before a projection is built. With Saturate on,
// every accepted projection's saturated costs are subtracted from the
// remaining cost vector, so later candidates compete for what is left.
func Generate(t *task.Task, opts Options) (*Collection, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.MaxPatternSize > t.NumVariables() {
		opts.MaxPatternSize = t.NumVariables()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	d := &driver{
		t:         t,
		opts:      opts,
		logger:    opts.Logger,
		gen:       newGenerator(t, &opts, rng, opts.Logger),
		seen:      make(map[string]bool),
		used:      newPairMatrix(t.NumVariables()),
		remaining: t.OperatorCosts(),
		coll:      &Collection{},
	}
	d.domains = make([]int, t.NumVariables())
	for v := range d.domains {
		d.domains[v] = t.DomainSize(v)
	}

	overallDeadline := time.Now().Add(opts.MaxTime)
	limitReached := false
	for !limitReached {
		d.coll.stats.Restarts++
		d.gen.restart(d.used)
		if opts.DeadEnds == DeadEndsNewForCurrentOrder {
			d.deadEnds.clear()
		}

		before := len(d.coll.projections)
		limitReached = d.selectPatterns(overallDeadline)
		after := len(d.coll.projections)
		d.logf("restart finished",
			slog.Int("patterns", after),
			slog.Int64("collection_size", int64(d.coll.stats.CollectionSize)))

		if opts.StoreOrders && after > before {
			order := make([]int, 0, after-before)
			for i := before; i < after; i++ {
				order = append(order, i)
			}
			d.coll.orders = append(d.coll.orders, order)
		}
		if after == before {
			d.logf("restart added no pattern")

			break
		}
		if time.Now().After(overallDeadline) {
			d.logf("overall time limit reached")

			break
		}
	}

	d.coll.remaining = d.remaining
	d.coll.stats.GeneratedPatterns = d.gen.numGeneratedPatterns()
	d.coll.stats.MaxGeneratedPatternSize = d.gen.maxGeneratedSize()
	d.coll.stats.SelectedPatterns = len(d.coll.projections)
	d.coll.stats.DeadEnds = d.deadEnds.size()
	d.logf("pattern search finished",
		slog.Int("selected", d.coll.stats.SelectedPatterns),
		slog.Int("generated", d.coll.stats.GeneratedPatterns),
		slog.Int("evaluations", d.coll.stats.PatternEvaluations))

	return d.coll, nil
}

// selectPatterns runs one restart. Reports whether a collection budget
// was reached (which ends the outer loop, unlike a mere timeout).
func (d *driver) selectPatterns(overallDeadline time.Time) bool {
	deadline := time.Now().Add(d.opts.MaxTimePerRestart)
	if overallDeadline.Before(deadline) {
		deadline = overallDeadline
	}

	for patternID := 0; ; patternID++ {
		start := time.Now()
		vars, status := d.gen.pattern(patternID, d.used, deadline)
		d.coll.stats.PatternTime += time.Since(start)

		if status == patternTimeout || time.Now().After(deadline) {
			d.logf("restart time limit reached")

			return false
		}
		if status == patternExhausted {
			d.logf("generated all patterns", slog.Int("max_size", d.gen.maxGeneratedSize()))

			return false
		}

		key := projection.Pattern(vars).Key()
		if d.seen[key] {
			continue
		}

		size := pdbSize(d.domains, vars)
		if size == -1 || size > d.opts.MaxPDBSize {
			continue // pattern too large
		}
		if len(d.coll.projections) == d.opts.MaxPatterns {
			d.logf("maximum number of patterns reached")

			return true
		}
		if int64(size) > d.opts.MaxCollectionSize-d.coll.stats.CollectionSize {
			d.logf("maximum collection size reached")

			return true
		}
		if d.opts.IgnoreUselessPatterns && d.onlyFreeOperatorsAffect(vars) {
			continue
		}

		start = time.Now()
		ev := newEvaluator(d.t, vars)
		d.coll.stats.ProjectionTime += time.Since(start)

		start = time.Now()
		selectPattern := ev.isUseful(d.remaining, &d.queue, &d.deadEnds, d.opts.DeadEnds)
		d.coll.stats.EvaluationTime += time.Since(start)
		d.coll.stats.PatternEvaluations++

		if !selectPattern {
			continue
		}

		proj, err := projection.New(d.t, projection.Pattern(vars))
		if err != nil {
			// Construction can only fail on inputs the size check above
			// already rejects; treat a failure as a skip all the same.
			continue
		}
		if d.opts.Saturate {
			goalDistances := proj.GoalDistances(d.remaining)
			saturated := proj.SaturatedCosts(goalDistances)
			projection.ReduceCosts(d.remaining, saturated)
		}
		d.coll.projections = append(d.coll.projections, proj)
		d.seen[key] = true
		d.used.markPattern(vars)
		d.coll.stats.CollectionSize += int64(size)
		d.logf("add pattern", slog.String("pattern", projection.Pattern(vars).String()))
	}
}

// onlyFreeOperatorsAffect reports whether every operator with an effect
// inside the pattern has remaining cost 0 or Infinity. Such a pattern
// cannot yield a positive finite distance.
func (d *driver) onlyFreeOperatorsAffect(vars []int) bool {
	for _, v := range vars {
		for _, op := range d.t.RelevantOperators(v) {
			if c := d.remaining[op]; c > 0 && c < task.Infinity {
				return false
			}
		}
	}

	return true
}

func (d *driver) logf(msg string, attrs ...slog.Attr) {
	if d.logger != nil {
		d.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}
