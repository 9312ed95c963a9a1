// Package projection implements pattern databases: projections of a
// grounded planning task onto a subset of its variables.
//
// A projection enumerates the abstract state space of a pattern
// (ordered subset of variable ids) through a perfect hash: state index
// = Σ multiplier[i]·value(pattern[i]), with multiplier[i] the product
// of the preceding pattern domains. Construction builds, per concrete
// operator with an effect inside the pattern, the multiplied-out
// abstract operators (one per combination of values for pattern
// variables without a precondition), indexes their regression
// conditions in a match tree, and enumerates the abstract goal states.
//
// Distances are goal distances: GoalDistances runs a backward Dijkstra
// from the abstract goal states under a caller-supplied cost vector and
// returns, per abstract state, the cheapest cost of reaching a goal
// state, or task.Infinity when none is reachable. SaturatedCosts then
// yields the cheapest per-operator costs under which recomputing those
// distances would return them unchanged. Subtracting saturated costs
// from a cost vector and handing the remainder to the next projection
// is what makes sums of projection heuristics admissible.
//
// Projections satisfy the Abstraction capability consumed by the scp
// package. When the transition system is no longer needed, callers
// extract a compact StateMapper (pattern plus multipliers) and release
// the heavy construction artifacts deterministically.
//
// Complexity, for pattern size k, abstract states N and abstract
// operators A:
//
//   - Construction: O(A·k + N·k) time, O(N + A) space.
//   - GoalDistances: O((N + A·N) log N) worst case; the match tree keeps
//     the per-state operator scan close to the applicable set.
//   - SaturatedCosts: one sweep over all states and matched operators.
//
// Errors (sentinel):
//
//	– ErrEmptyPattern    if the pattern has no variables.
//	– ErrPatternVariable if the pattern is unsorted, repeats a variable,
//	  or references an unknown variable.
//	– ErrPatternTooLarge if the abstract state count overflows MaxStates.
package projection
