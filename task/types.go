// Package task defines the core Fact, Operator, State, and Task types
// shared by every component of the engine.
//
// This file declares the value types, the Infinity sentinel, and the
// sentinel errors returned by New.
package task

import (
	"errors"
	"math"
)

// Infinity is the "+∞" sentinel for costs and distances.
//
// It is deliberately math.MaxInt32 rather than math.MaxInt64: distance
// relaxation adds a finite distance to a finite cost, and keeping both
// strictly below 2^31 means the sum always fits an int without overflow
// checks on the hot path. Any value ≥ Infinity is treated as infinite.
const Infinity = math.MaxInt32

// Sentinel errors for task construction.
var (
	// ErrNoVariables indicates a task without any variables.
	ErrNoVariables = errors.New("task: task must declare at least one variable")

	// ErrBadDomain indicates a variable with a domain size below 1.
	ErrBadDomain = errors.New("task: variable domain size must be at least 1")

	// ErrBadFact indicates a fact referencing an unknown variable or a
	// value outside the variable's domain.
	ErrBadFact = errors.New("task: fact out of range")

	// ErrDuplicateVar indicates a precondition, effect, or goal with two
	// facts on the same variable.
	ErrDuplicateVar = errors.New("task: duplicate variable in condition")

	// ErrNegativeCost indicates an operator with a negative cost.
	ErrNegativeCost = errors.New("task: operator cost must be non-negative")

	// ErrBadInitialState indicates an initial assignment that is not a
	// complete in-range assignment over all variables.
	ErrBadInitialState = errors.New("task: initial state must assign every variable")

	// ErrBadGoal indicates an invalid goal description.
	ErrBadGoal = errors.New("task: invalid goal description")
)

// Fact is a single variable/value pair.
type Fact struct {
	// Var is the variable index, 0 ≤ Var < NumVariables.
	Var int

	// Value is the assigned value, 0 ≤ Value < DomainSize(Var).
	Value int
}

// Operator is a grounded action: preconditions, effects, and a
// non-negative integer cost. Pre and Eff hold at most one fact per
// variable; New sorts both by variable index.
type Operator struct {
	// ID is the operator's index in the task. New overwrites it with the
	// position of the operator in the input slice.
	ID int

	// Cost is the non-negative application cost.
	Cost int

	// Pre lists the precondition facts, sorted by variable.
	Pre []Fact

	// Eff lists the effect facts, sorted by variable.
	Eff []Fact
}

// State is a full assignment: one value per variable, indexed by
// variable id.
type State []int

// Value returns the value assigned to variable v.
func (s State) Value(v int) int { return s[v] }

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)

	return c
}
