package task

import (
	"fmt"
	"sort"
)

// Task is an immutable grounded planning task. Construct with New; all
// accessors are read-only and safe to share across the engine.
type Task struct {
	domains   []int      // domains[v] = domain size of variable v
	operators []Operator // normalized operators, ID = slice index
	initial   State      // complete initial assignment
	goal      []Fact     // partial goal assignment, sorted by variable

	factIDOffsets []int // factIDOffsets[v] = id of fact (v, 0)
	numFacts      int   // total number of facts across all variables

	relevantOps [][]int // relevantOps[v] = ids of operators with an effect on v

	causal *CausalGraph
}

// New validates and normalizes a grounded task.
//
// Validation (in order):
//  1. At least one variable; every domain size ≥ 1 (ErrNoVariables, ErrBadDomain).
//  2. Every operator cost ≥ 0 (ErrNegativeCost).
//  3. Every precondition/effect fact in range, at most one per variable
//     (ErrBadFact, ErrDuplicateVar).
//  4. Initial state assigns every variable an in-range value (ErrBadInitialState).
//  5. Goal facts in range, variables distinct (ErrBadGoal wrapping the cause).
//
// New copies its inputs; callers may reuse their slices afterwards.
func New(domains []int, operators []Operator, initial State, goal []Fact) (*Task, error) {
	if len(domains) == 0 {
		return nil, ErrNoVariables
	}
	for v, d := range domains {
		if d < 1 {
			return nil, fmt.Errorf("%w: variable %d has domain size %d", ErrBadDomain, v, d)
		}
	}

	t := &Task{
		domains:     append([]int(nil), domains...),
		operators:   make([]Operator, len(operators)),
		relevantOps: make([][]int, len(domains)),
	}

	// Fact id layout: facts of variable v occupy the contiguous range
	// [offset(v), offset(v)+domain(v)).
	t.factIDOffsets = make([]int, len(domains))
	for v, d := range domains {
		t.factIDOffsets[v] = t.numFacts
		t.numFacts += d
	}

	for i, op := range operators {
		if op.Cost < 0 {
			return nil, fmt.Errorf("%w: operator %d has cost %d", ErrNegativeCost, i, op.Cost)
		}
		pre, err := t.normalizeCondition(op.Pre)
		if err != nil {
			return nil, fmt.Errorf("operator %d precondition: %w", i, err)
		}
		eff, err := t.normalizeCondition(op.Eff)
		if err != nil {
			return nil, fmt.Errorf("operator %d effect: %w", i, err)
		}
		t.operators[i] = Operator{ID: i, Cost: op.Cost, Pre: pre, Eff: eff}
		for _, f := range eff {
			t.relevantOps[f.Var] = append(t.relevantOps[f.Var], i)
		}
	}

	if len(initial) != len(domains) {
		return nil, fmt.Errorf("%w: got %d values for %d variables",
			ErrBadInitialState, len(initial), len(domains))
	}
	for v, val := range initial {
		if val < 0 || val >= domains[v] {
			return nil, fmt.Errorf("%w: variable %d has value %d", ErrBadInitialState, v, val)
		}
	}
	t.initial = initial.Clone()

	normalGoal, err := t.normalizeCondition(goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadGoal, err)
	}
	t.goal = normalGoal

	t.causal = newCausalGraph(t)

	return t, nil
}

// normalizeCondition checks a partial assignment and returns it sorted
// by variable index.
func (t *Task) normalizeCondition(facts []Fact) ([]Fact, error) {
	out := append([]Fact(nil), facts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	for i, f := range out {
		if f.Var < 0 || f.Var >= len(t.domains) || f.Value < 0 || f.Value >= t.domains[f.Var] {
			return nil, fmt.Errorf("%w: (%d, %d)", ErrBadFact, f.Var, f.Value)
		}
		if i > 0 && out[i-1].Var == f.Var {
			return nil, fmt.Errorf("%w: variable %d", ErrDuplicateVar, f.Var)
		}
	}

	return out, nil
}

// NumVariables returns the number of task variables.
func (t *Task) NumVariables() int { return len(t.domains) }

// DomainSize returns the domain size of variable v.
func (t *Task) DomainSize(v int) int { return t.domains[v] }

// NumOperators returns the number of operators.
func (t *Task) NumOperators() int { return len(t.operators) }

// Operator returns the operator with id o. The returned value shares
// its Pre/Eff slices with the task; callers must not mutate them.
func (t *Task) Operator(o int) Operator { return t.operators[o] }

// OperatorCosts returns a fresh copy of the per-operator cost vector.
// This is the remaining-cost template consumed by cost partitioning;
// each call yields an independent slice.
func (t *Task) OperatorCosts() []int {
	costs := make([]int, len(t.operators))
	for i := range t.operators {
		costs[i] = t.operators[i].Cost
	}

	return costs
}

// Goal returns the goal facts, sorted by variable. The slice is shared;
// callers must not mutate it.
func (t *Task) Goal() []Fact { return t.goal }

// GoalValue returns the goal value for variable v and whether v is
// constrained by the goal at all.
func (t *Task) GoalValue(v int) (int, bool) {
	for _, f := range t.goal {
		if f.Var == v {
			return f.Value, true
		}
		if f.Var > v {
			break
		}
	}

	return 0, false
}

// Initial returns a copy of the initial state.
func (t *Task) Initial() State { return t.initial.Clone() }

// NumFacts returns the total number of facts across all variables.
func (t *Task) NumFacts() int { return t.numFacts }

// FactID returns the flat id of fact (v, value):
// factIDOffsets[v] + value. Ids are dense in [0, NumFacts).
func (t *Task) FactID(v, value int) int { return t.factIDOffsets[v] + value }

// RelevantOperators returns the ids of all operators with an effect on
// variable v, in operator order. The slice is shared; do not mutate.
func (t *Task) RelevantOperators(v int) []int { return t.relevantOps[v] }

// CausalGraph returns the causal graph over the task variables.
func (t *Task) CausalGraph() *CausalGraph { return t.causal }
