// Package pattern grows a collection of projections by systematic
// pattern search: candidate variable subsets are enumerated in
// non-decreasing size, ordered by a configurable policy, screened by a
// cheap usefulness test, and only the survivors are materialized as
// full projections.
//
// The three moving parts:
//
//   - The systematic generator enumerates the causally interesting
//     variable subsets of each size lazily, one contiguous bucket per
//     size, and serves them through a flat pattern id. Data-dependent
//     orderings (RANDOM, NEW_VAR_PAIRS_*, ALT_TWO) are recomputed on
//     every restart; deterministic ones are computed once per bucket.
//
//   - The evaluator answers "would this projection contribute anything
//     under the current remaining costs?" without building a match
//     tree: it runs the same backward Dijkstra over lazily enumerated
//     abstract operators, short-circuiting at the first settled state
//     with a positive finite distance. Dead-end treatments additionally
//     harvest infinite-distance abstract states into a partial-state
//     collection.
//
//   - Generate drives the whole loop: restart the generator, walk
//     pattern ids, dedup, enforce the size/count/time budgets, evaluate,
//     build the surviving projections, and (when saturation is on)
//     subtract each new projection's saturated costs from the remaining
//     cost vector so later candidates are judged against what is left.
//
// Time budgets are cooperative: deadlines are checked between pattern
// evaluations and inside bucket materialization, never inside the inner
// Dijkstra loops.
//
// Errors (sentinel): see types.go; all of them signal contradictory or
// out-of-range options and are returned before any work starts.
package pattern
