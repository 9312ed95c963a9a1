// Package task provides a read-only façade over a grounded planning
// task: finite-domain variables, operators with preconditions, effects
// and non-negative integer costs, a full initial assignment, and a
// partial goal assignment.
//
// A Task is immutable after construction. New validates and normalizes
// its inputs once, so every consumer downstream (projections, pattern
// generators, cost partitioning) can index into it without re-checking.
//
// Beyond plain accessors, the package precomputes two structures the
// rest of the engine leans on:
//
//   - the causal graph over variables (pre→eff and eff↔eff arcs), used
//     to restrict pattern enumeration to causally relevant variable sets;
//   - per-variable relevant operator lists (operators with an effect on
//     the variable), used for cheap pattern filtering and scoring.
//
// Costs and distances throughout the engine use Infinity as the "+∞"
// sentinel: an Infinity cost marks a forbidden operator, an Infinity
// distance an unreachable abstract state.
//
// Errors (sentinel):
//
//	– ErrNoVariables     if the task declares no variables.
//	– ErrBadDomain       if some variable has a domain size < 1.
//	– ErrBadFact         if a fact references an unknown variable or value.
//	– ErrDuplicateVar    if a condition holds two facts on one variable.
//	– ErrNegativeCost    if an operator cost is negative.
//	– ErrBadInitialState if the initial assignment is incomplete or out of range.
//	– ErrBadGoal         if the goal repeats a variable or is out of range.
package task
