package pattern

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/katalvlaran/costsat/task"
)

// patternStatus is the outcome of a generator lookup.
type patternStatus int

const (
	patternOK        patternStatus = iota
	patternExhausted               // all sizes up to the limit materialized and consumed
	patternTimeout                 // restart deadline hit during materialization
)

// generator lazily enumerates the causally interesting variable subsets
// in non-decreasing size, one contiguous bucket per size, and serves
// them through a flat, monotonically increasing pattern id.
type generator struct {
	t       *task.Task
	cg      *task.CausalGraph
	domains []int

	maxPatternSize int
	onlySGA        bool
	orderType      Order
	defaultOrder   Order
	rng            *rand.Rand
	logger         *slog.Logger

	candidates []int    // goal-ancestor variables, ascending
	sgaSets    [][]bool // per goal variable: ancestor membership

	buckets      []arrayPool
	orders       [][]int // orders[i][rank] = index into buckets[i]
	numGenerated int

	opSeen []bool // scratch for active-operator scoring
}

func newGenerator(t *task.Task, opts *Options, rng *rand.Rand, logger *slog.Logger) *generator {
	g := &generator{
		t:              t,
		cg:             t.CausalGraph(),
		maxPatternSize: opts.MaxPatternSize,
		onlySGA:        opts.OnlySGAPatterns,
		orderType:      opts.Order,
		rng:            rng,
		logger:         logger,
		opSeen:         make([]bool, t.NumOperators()),
	}
	if g.maxPatternSize > t.NumVariables() {
		g.maxPatternSize = t.NumVariables()
	}
	g.domains = make([]int, t.NumVariables())
	for v := range g.domains {
		g.domains[v] = t.DomainSize(v)
	}
	g.candidates = g.cg.GoalAncestors()
	for _, f := range t.Goal() {
		g.sgaSets = append(g.sgaSets, g.cg.Ancestors(f.Var))
	}
	g.defaultOrder = g.pickOrder()

	return g
}

// pickOrder resolves OrderAltTwo to one of its two alternatives; every
// other policy maps to itself.
func (g *generator) pickOrder() Order {
	if g.orderType == OrderAltTwo {
		if g.rng.Intn(2) == 0 {
			return OrderCGMinDown
		}

		return OrderActiveOpsUp
	}

	return g.orderType
}

// pattern returns the id-th pattern under the current bucket orders,
// materializing further size buckets on demand. The returned slice is a
// fresh copy.
func (g *generator) pattern(id int, used *pairMatrix, deadline time.Time) ([]int, patternStatus) {
	for id >= g.numGenerated {
		if len(g.buckets) >= g.maxPatternSize {
			return nil, patternExhausted
		}
		if !g.materialize(len(g.buckets)+1, used, deadline) {
			return nil, patternTimeout
		}
	}

	start := 0
	for bucket, order := range g.orders {
		if id < start+len(order) {
			vars := g.buckets[bucket].slice(order[id-start])

			return append([]int(nil), vars...), patternOK
		}
		start += len(order)
	}
	panic("pattern: generated pattern id not found in any bucket")
}

// materialize enumerates, filters, and orders the bucket of the given
// size. Returns false when the deadline expires mid-way; a partial
// bucket is discarded so ids stay stable.
func (g *generator) materialize(size int, used *pairMatrix, deadline time.Time) bool {
	g.logf("generating patterns", slog.Int("size", size))

	var bucket arrayPool
	if !g.forEachSubset(size, deadline, func(vars []int) {
		bucket.append(vars)
	}) {
		return false
	}

	order := make([]int, bucket.size())
	for i := range order {
		order[i] = i
	}
	g.computeOrder(&bucket, order, g.defaultOrder, used)

	g.numGenerated += bucket.size()
	g.buckets = append(g.buckets, bucket)
	g.orders = append(g.orders, order)
	g.logf("stored patterns", slog.Int("size", size), slog.Int("count", bucket.size()))

	return true
}

// forEachSubset walks the interesting subsets of the candidate
// variables with exactly the given size, in lexicographic order. The
// deadline is checked once per candidate combination.
func (g *generator) forEachSubset(size int, deadline time.Time, emit func([]int)) bool {
	if size > len(g.candidates) {
		return true
	}

	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	vars := make([]int, size)
	for {
		if time.Now().After(deadline) {
			return false
		}
		for i, ci := range idx {
			vars[i] = g.candidates[ci]
		}
		if g.interesting(vars) {
			emit(vars)
		}

		// Advance to the next combination.
		i := size - 1
		for i >= 0 && idx[i] == len(g.candidates)-size+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// interesting applies the structural filters: the subset must induce a
// connected causal subgraph, and under OnlySGAPatterns it must sit
// inside a single goal variable's ancestor set.
func (g *generator) interesting(vars []int) bool {
	if len(vars) > 1 && !g.cg.Connected(vars) {
		return false
	}
	if !g.onlySGA {
		return true
	}
	for _, ancestors := range g.sgaSets {
		all := true
		for _, v := range vars {
			if !ancestors[v] {
				all = false

				break
			}
		}
		if all {
			return true
		}
	}

	return false
}

// restart recomputes the bucket orders for the data-dependent policies.
// Deterministic policies keep the order computed at materialization.
func (g *generator) restart(used *pairMatrix) {
	switch g.orderType {
	case OrderRandom, OrderNewVarPairsUp, OrderNewVarPairsDown, OrderAltTwo:
		current := g.pickOrder()
		for i := range g.buckets {
			g.computeOrder(&g.buckets[i], g.orders[i], current, used)
		}
	}
}

// computeOrder ranks the bucket's patterns in place. Sorting is stable,
// so equal scores keep the enumeration order in both directions.
func (g *generator) computeOrder(bucket *arrayPool, order []int, typ Order, used *pairMatrix) {
	switch typ {
	case OrderOriginal:
		for i := range order {
			order[i] = i
		}

		return
	case OrderReverse:
		for i := range order {
			order[i] = len(order) - 1 - i
		}

		return
	case OrderRandom:
		for i := range order {
			order[i] = i
		}
		g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		return
	case OrderActiveOpsUpCGMinDown, OrderCGMinDownActiveOpsUp:
		primary := make([]int, bucket.size())
		secondary := make([]int, bucket.size())
		for i := 0; i < bucket.size(); i++ {
			vars := bucket.slice(i)
			activeOps := activeOpCount(g.t, vars, g.opSeen)
			cgMin := -varMin(vars) // descending on the raw id
			if typ == OrderActiveOpsUpCGMinDown {
				primary[i], secondary[i] = activeOps, cgMin
			} else {
				primary[i], secondary[i] = cgMin, activeOps
			}
		}
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			i, j := order[a], order[b]

			return primary[i] < primary[j] ||
				(primary[i] == primary[j] && secondary[i] < secondary[j])
		})

		return
	}

	descending := false
	scores := make([]int, bucket.size())
	for i := 0; i < bucket.size(); i++ {
		vars := bucket.slice(i)
		switch typ {
		case OrderPDBSizeUp, OrderPDBSizeDown:
			if scores[i] = pdbSize(g.domains, vars); scores[i] == -1 {
				scores[i] = task.Infinity
			}
			descending = typ == OrderPDBSizeDown
		case OrderCGSumUp, OrderCGSumDown:
			scores[i] = varSum(vars)
			descending = typ == OrderCGSumDown
		case OrderCGMinUp, OrderCGMinDown:
			scores[i] = varMin(vars)
			descending = typ == OrderCGMinDown
		case OrderCGMaxUp, OrderCGMaxDown:
			scores[i] = varMax(vars)
			descending = typ == OrderCGMaxDown
		case OrderNewVarPairsUp, OrderNewVarPairsDown:
			scores[i] = newVarPairs(vars, used)
			descending = typ == OrderNewVarPairsDown
		case OrderActiveOpsUp, OrderActiveOpsDown:
			scores[i] = activeOpCount(g.t, vars, g.opSeen)
			descending = typ == OrderActiveOpsDown
		default:
			panic("pattern: unhandled pattern order")
		}
	}
	for i := range order {
		order[i] = i
	}
	if descending {
		sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	} else {
		sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })
	}
}

// numGeneratedPatterns returns the count of materialized patterns.
func (g *generator) numGeneratedPatterns() int { return g.numGenerated }

// maxGeneratedSize returns the largest materialized pattern size.
func (g *generator) maxGeneratedSize() int { return len(g.buckets) }

func (g *generator) logf(msg string, attrs ...slog.Attr) {
	if g.logger != nil {
		g.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}
