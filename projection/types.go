// Package projection defines the Pattern type, the Abstraction
// capability implemented by projections, and the sentinel errors of
// projection construction.
package projection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/costsat/task"
)

// MaxStates caps the number of abstract states of a single projection.
// Patterns whose domain product exceeds it fail construction with
// ErrPatternTooLarge.
const MaxStates = task.Infinity

// Sentinel errors for projection construction.
var (
	// ErrEmptyPattern indicates a pattern without variables.
	ErrEmptyPattern = errors.New("projection: pattern must contain at least one variable")

	// ErrPatternVariable indicates a pattern that is not strictly
	// increasing or references a variable outside the task.
	ErrPatternVariable = errors.New("projection: pattern variables must be distinct, sorted, and in range")

	// ErrPatternTooLarge indicates a pattern whose abstract state count
	// exceeds MaxStates.
	ErrPatternTooLarge = errors.New("projection: abstract state space too large")
)

// Pattern is an ordered sequence of distinct variable ids,
// v₀ < v₁ < … < vₖ₋₁. The set defines the projection; the order fixes
// the perfect-hash layout.
type Pattern []int

// Clone returns an independent copy of the pattern.
func (p Pattern) Clone() Pattern {
	c := make(Pattern, len(p))
	copy(c, p)

	return c
}

// Equal reports whether two patterns contain the same variables in the
// same order.
func (p Pattern) Equal(other Pattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// Key returns a canonical string form usable as a map key for pattern
// deduplication.
func (p Pattern) Key() string {
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}

	return b.String()
}

// String renders the pattern as "[v0 v1 ...]".
func (p Pattern) String() string {
	return fmt.Sprintf("%v", []int(p))
}

// validate checks the pattern against a task.
func (p Pattern) validate(t *task.Task) error {
	if len(p) == 0 {
		return ErrEmptyPattern
	}
	for i, v := range p {
		if v < 0 || v >= t.NumVariables() {
			return fmt.Errorf("%w: variable %d", ErrPatternVariable, v)
		}
		if i > 0 && p[i-1] >= v {
			return fmt.Errorf("%w: %d before %d", ErrPatternVariable, p[i-1], v)
		}
	}

	return nil
}

// StateMapper is the compact abstraction function of a projection: just
// enough to map concrete states to abstract indices after the heavy
// transition system has been released.
type StateMapper struct {
	pattern     Pattern
	multipliers []int
	domains     []int // per pattern position
	numStates   int
}

// AbstractStateID returns the perfect-hash index of the abstract state
// the concrete state maps to.
func (m *StateMapper) AbstractStateID(s task.State) int {
	index := 0
	for i, v := range m.pattern {
		index += m.multipliers[i] * s[v]
	}

	return index
}

// Pattern returns the projection's pattern. Shared slice; do not mutate.
func (m *StateMapper) Pattern() Pattern { return m.pattern }

// NumStates returns the number of abstract states.
func (m *StateMapper) NumStates() int { return m.numStates }

// ProjectedValues decodes an abstract index back into the per-position
// pattern-variable values. ProjectedValues(AbstractStateID(s))[i]
// equals s[pattern[i]] for every concrete state s.
func (m *StateMapper) ProjectedValues(index int) []int {
	values := make([]int, len(m.pattern))
	for i := range m.pattern {
		values[i] = (index / m.multipliers[i]) % m.domains[i]
	}

	return values
}

// Abstraction is the capability shared by all abstraction variants
// consumed by cost partitioning: projections here, externally provided
// abstractions elsewhere. Implementations are not safe for concurrent
// use.
type Abstraction interface {
	// AbstractStateID maps a concrete state to its abstract index.
	AbstractStateID(s task.State) int

	// GoalDistances returns, per abstract state, the cheapest goal
	// distance under the given per-operator cost vector, task.Infinity
	// for unreachable states.
	GoalDistances(costs []int) []int

	// SaturatedCosts returns, per operator, the minimum cost preserving
	// the given goal distances. Values may be negative; callers clamp.
	SaturatedCosts(h []int) []int

	// ActiveOperators returns the sorted ids of operators inducing at
	// least one state-changing abstract transition.
	ActiveOperators() []int

	// InducesSelfLoop reports whether the operator induces at least one
	// abstract self-loop. An operator may be both active and looping.
	InducesSelfLoop(op int) bool

	// NumStates returns the number of abstract states.
	NumStates() int

	// GoalStates returns the sorted abstract goal state indices.
	GoalStates() []int

	// ExtractFunction returns the compact abstraction function and
	// releases the transition system. Only AbstractStateID, NumStates,
	// Pattern, ActiveOperators and InducesSelfLoop remain valid on the
	// abstraction afterwards.
	ExtractFunction() *StateMapper

	fmt.Stringer
}
