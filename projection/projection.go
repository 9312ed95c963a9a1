package projection

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/costsat/pqueue"
	"github.com/katalvlaran/costsat/task"
)

// abstractOperator is one multiplied-out abstract transition template.
// Its regression conditions live in the match tree; delta is the hash
// offset from an abstract successor to the matching predecessor.
type abstractOperator struct {
	op    int // concrete operator id
	delta int // predecessor index = successor index + delta
}

// Projection is a pattern database over one pattern. Construct with
// New. A Projection owns scratch buffers and a shared queue, so a
// single instance must not be used concurrently.
type Projection struct {
	pattern     Pattern
	multipliers []int // multipliers[i] = Π_{j<i} domain(pattern[j])
	domains     []int // domain size per pattern position
	numStates   int
	numOps      int

	abstractOps []abstractOperator
	tree        *matchTree
	goalStates  []int

	activeOps  []int  // sorted concrete ids with ≥1 state-changing transition
	loopingOps []bool // loopingOps[op] = op induces an abstract self-loop

	released bool

	// Reused per GoalDistances/SaturatedCosts call.
	queue     pqueue.AdaptiveQueue
	scratchV  []int
	scratchOp []int
}

// New builds the projection of t onto pattern p.
//
// Construction steps:
//  1. Hash multipliers and state count, failing with ErrPatternTooLarge
//     when the running product would exceed MaxStates.
//  2. Per relevant operator (one with an effect inside the pattern),
//     multiply out the abstract operators over all values of pattern
//     variables without a precondition, so every abstract operator
//     carries a fully bound abstract precondition.
//  3. Self-loops are kept only on the looping-operators record; all
//     state-changing abstract operators go into the match tree keyed by
//     their regression conditions.
//  4. Goal states are enumerated by scanning all abstract indices.
func New(t *task.Task, p Pattern) (*Projection, error) {
	if err := p.validate(t); err != nil {
		return nil, err
	}

	pr := &Projection{
		pattern:     p.Clone(),
		multipliers: make([]int, len(p)),
		domains:     make([]int, len(p)),
		numOps:      t.NumOperators(),
		loopingOps:  make([]bool, t.NumOperators()),
	}

	states := 1
	for i, v := range p {
		pr.multipliers[i] = states
		pr.domains[i] = t.DomainSize(v)
		if states > MaxStates/pr.domains[i] {
			return nil, fmt.Errorf("%w: %s", ErrPatternTooLarge, p)
		}
		states *= pr.domains[i]
	}
	pr.numStates = states

	// variableToPos[v] = position of v in the pattern, or -1.
	variableToPos := make([]int, t.NumVariables())
	for v := range variableToPos {
		variableToPos[v] = -1
	}
	for i, v := range p {
		variableToPos[v] = i
	}

	pr.tree = newMatchTree(pr.domains)
	pr.buildAbstractOperators(t, variableToPos)
	pr.goalStates = pr.computeGoalStates(t)

	pr.scratchV = make([]int, len(p))

	return pr, nil
}

// buildAbstractOperators enumerates the abstract operators of every
// relevant concrete operator and fills the match tree, the active set,
// and the self-loop record.
func (pr *Projection) buildAbstractOperators(t *task.Task, variableToPos []int) {
	active := make([]bool, pr.numOps)

	for opID := 0; opID < pr.numOps; opID++ {
		op := t.Operator(opID)

		// Collect the operator footprint inside the pattern: effect
		// position/value pairs and pinned preconditions. Every pattern
		// position without a precondition is a wildcard and multiplies
		// out over its full domain, so each abstract operator carries a
		// fully bound abstract precondition.
		var effs, pres []condition
		var wildcards []int
		for _, e := range op.Eff {
			if pos := variableToPos[e.Var]; pos >= 0 {
				effs = append(effs, condition{pos, e.Value})
			}
		}
		if len(effs) == 0 {
			continue // operator does not touch the pattern
		}
		hasPre := make(map[int]int, len(op.Pre)) // position → pre value
		for _, f := range op.Pre {
			if pos := variableToPos[f.Var]; pos >= 0 {
				hasPre[pos] = f.Value
			}
		}
		for pos := range pr.pattern {
			if _, ok := hasPre[pos]; !ok {
				wildcards = append(wildcards, pos)
			}
		}
		for pos, val := range hasPre {
			pres = append(pres, condition{pos, val})
		}
		sort.Slice(pres, func(i, j int) bool { return pres[i].pos < pres[j].pos })

		pr.multiplyOut(opID, effs, pres, wildcards, nil, active)
	}

	for op, a := range active {
		if a {
			pr.activeOps = append(pr.activeOps, op)
		}
	}
}

// multiplyOut recursively assigns a predecessor value to every pattern
// position without a precondition and emits one abstract operator per
// complete assignment.
func (pr *Projection) multiplyOut(
	opID int,
	effs, pres []condition,
	wildcards []int,
	bound []condition,
	active []bool,
) {
	if len(wildcards) > 0 {
		pos := wildcards[0]
		for value := 0; value < pr.domains[pos]; value++ {
			pr.multiplyOut(opID, effs, pres, wildcards[1:],
				append(bound, condition{pos, value}), active)
		}

		return
	}

	// Every position now has a predecessor value, either from a real
	// precondition or from the wildcard binding of this branch.
	preValue := func(pos int) int {
		for _, c := range pres {
			if c.pos == pos {
				return c.value
			}
		}
		for _, c := range bound {
			if c.pos == pos {
				return c.value
			}
		}
		panic("projection: unbound pattern position")
	}
	effValue := func(pos int) (int, bool) {
		for _, e := range effs {
			if e.pos == pos {
				return e.value, true
			}
		}

		return 0, false
	}

	delta := 0
	for _, e := range effs {
		delta += pr.multipliers[e.pos] * (preValue(e.pos) - e.value)
	}

	if delta == 0 {
		pr.loopingOps[opID] = true

		return
	}
	active[opID] = true

	// Regression conditions pin every position: effect positions to
	// their effect value, all others to their predecessor value.
	conds := make([]condition, 0, len(pr.pattern))
	for pos := range pr.pattern {
		if value, ok := effValue(pos); ok {
			conds = append(conds, condition{pos, value})
		} else {
			conds = append(conds, condition{pos, preValue(pos)})
		}
	}

	pr.abstractOps = append(pr.abstractOps, abstractOperator{op: opID, delta: delta})
	pr.tree.insert(conds, len(pr.abstractOps)-1)
}

// computeGoalStates scans all abstract indices and keeps those
// consistent with every goal fact on a pattern variable. With no goal
// fact inside the pattern, every abstract state is a goal state.
func (pr *Projection) computeGoalStates(t *task.Task) []int {
	var goals []condition
	for i, v := range pr.pattern {
		if value, ok := t.GoalValue(v); ok {
			goals = append(goals, condition{i, value})
		}
	}

	states := make([]int, 0, pr.numStates/8+1)
	for index := 0; index < pr.numStates; index++ {
		ok := true
		for _, g := range goals {
			if (index/pr.multipliers[g.pos])%pr.domains[g.pos] != g.value {
				ok = false

				break
			}
		}
		if ok {
			states = append(states, index)
		}
	}

	return states
}

// decode writes the per-position values of an abstract index into dst.
func (pr *Projection) decode(index int, dst []int) {
	for i := range pr.pattern {
		dst[i] = (index / pr.multipliers[i]) % pr.domains[i]
	}
}

// AbstractStateID returns the perfect-hash index of the abstract state
// the concrete state maps to.
func (pr *Projection) AbstractStateID(s task.State) int {
	index := 0
	for i, v := range pr.pattern {
		index += pr.multipliers[i] * s[v]
	}

	return index
}

// Pattern returns the projection's pattern. Shared slice; do not mutate.
func (pr *Projection) Pattern() Pattern { return pr.pattern }

// NumStates returns the number of abstract states.
func (pr *Projection) NumStates() int { return pr.numStates }

// GoalStates returns the sorted abstract goal indices. Shared slice;
// do not mutate. Invalid after ExtractFunction.
func (pr *Projection) GoalStates() []int { return pr.goalStates }

// ActiveOperators returns the sorted ids of concrete operators that
// induce at least one state-changing abstract transition.
func (pr *Projection) ActiveOperators() []int { return pr.activeOps }

// InducesSelfLoop reports whether the operator induces at least one
// abstract self-loop.
func (pr *Projection) InducesSelfLoop(op int) bool { return pr.loopingOps[op] }

// ExtractFunction returns the compact abstraction function and releases
// the transition system: match tree, abstract operators, and goal
// states are dropped so only the hash layout survives.
func (pr *Projection) ExtractFunction() *StateMapper {
	m := &StateMapper{
		pattern:     pr.pattern,
		multipliers: pr.multipliers,
		domains:     pr.domains,
		numStates:   pr.numStates,
	}
	pr.tree = nil
	pr.abstractOps = nil
	pr.goalStates = nil
	pr.scratchOp = nil
	pr.queue = pqueue.AdaptiveQueue{}
	pr.released = true

	return m
}

// String renders a short diagnostic description.
func (pr *Projection) String() string {
	return fmt.Sprintf("projection pattern=%s states=%d operators=%d goals=%d",
		pr.pattern, pr.numStates, len(pr.abstractOps), len(pr.goalStates))
}
