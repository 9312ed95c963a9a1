package pattern

import (
	"github.com/katalvlaran/costsat/pqueue"
	"github.com/katalvlaran/costsat/task"
)

// liteCond is a (pattern position, value) pair of a regression
// precondition in the evaluator's throwaway abstract space.
type liteCond struct {
	pos   int
	value int
}

// liteOp is a match-tree-free abstract operator: regression conditions,
// the hash offset to the predecessor, and the concrete operator id.
type liteOp struct {
	conds []liteCond
	delta int
	op    int
}

// evaluator holds the throwaway abstract space of one candidate
// pattern. It is much cheaper than a full projection: no match tree,
// operators checked linearly against each settled state.
type evaluator struct {
	vars        []int
	multipliers []int
	domains     []int
	numStates   int
	ops         []liteOp
	goals       []liteCond
}

// newEvaluator builds the abstract space of the candidate pattern. The
// caller must have checked that the state count fits (pdbSize ≥ 0).
func newEvaluator(t *task.Task, vars []int) *evaluator {
	e := &evaluator{
		vars:        vars,
		multipliers: make([]int, len(vars)),
		domains:     make([]int, len(vars)),
	}
	states := 1
	for i, v := range vars {
		e.multipliers[i] = states
		e.domains[i] = t.DomainSize(v)
		states *= e.domains[i]
	}
	e.numStates = states

	varToPos := make(map[int]int, len(vars))
	for i, v := range vars {
		varToPos[v] = i
	}
	for opID := 0; opID < t.NumOperators(); opID++ {
		e.buildOps(t.Operator(opID), varToPos)
	}

	for i, v := range vars {
		if value, ok := t.GoalValue(v); ok {
			e.goals = append(e.goals, liteCond{i, value})
		}
	}

	return e
}

// buildOps multiplies out one concrete operator into lite abstract
// operators, dropping self-loops.
func (e *evaluator) buildOps(op task.Operator, varToPos map[int]int) {
	var effs []liteCond
	for _, f := range op.Eff {
		if pos, ok := varToPos[f.Var]; ok {
			effs = append(effs, liteCond{pos, f.Value})
		}
	}
	if len(effs) == 0 {
		return
	}
	preByPos := make(map[int]int, len(op.Pre))
	for _, f := range op.Pre {
		if pos, ok := varToPos[f.Var]; ok {
			preByPos[pos] = f.Value
		}
	}

	// Every pattern position without a precondition is a wildcard and
	// multiplies out over its full domain.
	var wildcards []int
	for pos := range e.vars {
		if _, ok := preByPos[pos]; !ok {
			wildcards = append(wildcards, pos)
		}
	}

	effAt := func(pos int) (int, bool) {
		for _, ec := range effs {
			if ec.pos == pos {
				return ec.value, true
			}
		}

		return 0, false
	}

	var rec func(wi int, assigned []liteCond)
	rec = func(wi int, assigned []liteCond) {
		if wi < len(wildcards) {
			pos := wildcards[wi]
			for value := 0; value < e.domains[pos]; value++ {
				rec(wi+1, append(assigned, liteCond{pos, value}))
			}

			return
		}
		preAt := func(pos int) int {
			if v, ok := preByPos[pos]; ok {
				return v
			}
			for _, c := range assigned {
				if c.pos == pos {
					return c.value
				}
			}
			panic("pattern: unbound wildcard position")
		}
		delta := 0
		for _, ec := range effs {
			delta += e.multipliers[ec.pos] * (preAt(ec.pos) - ec.value)
		}
		if delta == 0 {
			return
		}
		// Regression conditions pin every position: effect value where
		// the operator writes, predecessor value everywhere else.
		conds := make([]liteCond, 0, len(e.vars))
		for pos := range e.vars {
			if value, ok := effAt(pos); ok {
				conds = append(conds, liteCond{pos, value})
			} else {
				conds = append(conds, liteCond{pos, preAt(pos)})
			}
		}
		e.ops = append(e.ops, liteOp{conds: conds, delta: delta, op: op.ID})
	}
	rec(0, nil)
}

// valueAt decodes one position of an abstract index.
func (e *evaluator) valueAt(index, pos int) int {
	return (index / e.multipliers[pos]) % e.domains[pos]
}

// isUseful runs the backward Dijkstra under the given costs and decides
// whether a full projection of this pattern could contribute.
//
// Treatment semantics:
//
//   - DeadEndsIgnore: useful iff some state settles with 0 < d < ∞;
//     short-circuits at the first such state.
//   - DeadEndsAll: like Ignore, but a pattern with an infinite distance
//     next to a finite one is also useful.
//   - DeadEndsNew / DeadEndsNewForCurrentOrder: the search always runs
//     to completion; infinite-distance states not subsumed by already
//     collected dead ends are added as partial-state dead ends, and
//     discovering one also makes the pattern useful.
func (e *evaluator) isUseful(
	costs []int,
	q *pqueue.AdaptiveQueue,
	deadEnds *deadEndCollection,
	mode DeadEndTreatment,
) bool {
	d := make([]int, e.numStates)
	for i := range d {
		d[i] = task.Infinity
	}

	q.Clear()
	for index := 0; index < e.numStates; index++ {
		goal := true
		for _, g := range e.goals {
			if e.valueAt(index, g.pos) != g.value {
				goal = false

				break
			}
		}
		if goal {
			d[index] = 0
			q.Push(0, index)
		}
	}

	collectDeadEnds := mode == DeadEndsNew || mode == DeadEndsNewForCurrentOrder
	foundPositive := false
	for {
		dist, i, ok := q.Pop()
		if !ok {
			break
		}
		if dist > d[i] {
			continue
		}
		if dist > 0 {
			if !collectDeadEnds {
				return true // first settled positive finite distance
			}
			foundPositive = true
		}
		for oi := range e.ops {
			a := &e.ops[oi]
			match := true
			for _, c := range a.conds {
				if e.valueAt(i, c.pos) != c.value {
					match = false

					break
				}
			}
			if !match {
				continue
			}
			c := costs[a.op]
			if c >= task.Infinity {
				continue
			}
			j := i + a.delta
			if nd := dist + c; nd < d[j] {
				d[j] = nd
				q.Push(nd, j)
			}
		}
	}

	switch mode {
	case DeadEndsIgnore:
		return false
	case DeadEndsAll:
		anyFinite, anyInfinite := false, false
		for _, dist := range d {
			if dist >= task.Infinity {
				anyInfinite = true
			} else {
				anyFinite = true
			}
		}

		return anyInfinite && anyFinite
	default:
		newDeadEnd := false
		values := make([]int, len(e.vars))
		for index, dist := range d {
			if dist < task.Infinity {
				continue
			}
			for pos := range e.vars {
				values[pos] = e.valueAt(index, pos)
			}
			if deadEnds.add(e.vars, values) {
				newDeadEnd = true
			}
		}

		return foundPositive || newDeadEnd
	}
}

// deadEnd is a partial state over a pattern's variables whose abstract
// distance is infinite: any concrete state extending it cannot reach
// the goal.
type deadEnd struct {
	vars   []int
	values []int
}

// deadEndCollection accumulates partial-state dead ends with
// subsumption checking: an entry whose facts all appear in a candidate
// makes the candidate redundant.
type deadEndCollection struct {
	entries []deadEnd
}

// add records the partial state unless an existing entry subsumes it.
// Reports whether the collection grew.
func (c *deadEndCollection) add(vars, values []int) bool {
	for _, e := range c.entries {
		if subsumes(e.vars, e.values, vars, values) {
			return false
		}
	}
	c.entries = append(c.entries, deadEnd{
		vars:   append([]int(nil), vars...),
		values: append([]int(nil), values...),
	})

	return true
}

// size returns the number of stored dead ends.
func (c *deadEndCollection) size() int { return len(c.entries) }

// clear drops all entries.
func (c *deadEndCollection) clear() { c.entries = c.entries[:0] }

// subsumes reports whether every fact of (aVars, aValues) appears in
// (bVars, bValues). Both fact lists are sorted by variable.
func subsumes(aVars, aValues, bVars, bValues []int) bool {
	bi := 0
	for ai := range aVars {
		for bi < len(bVars) && bVars[bi] < aVars[ai] {
			bi++
		}
		if bi >= len(bVars) || bVars[bi] != aVars[ai] || bValues[bi] != aValues[ai] {
			return false
		}
	}

	return true
}
