// Package scp implements saturated cost partitioning over a collection
// of abstractions, and the online heuristic that drives it during
// search.
//
// Saturated cost partitioning visits the abstractions in some order:
// each abstraction computes its goal distances under the remaining
// operator costs, keeps those distances as a lookup table, and gives
// back a saturated cost function, the cheapest costs that reproduce the
// same distances. Subtracting the saturated costs before moving to the
// next abstraction guarantees the summed lookups never exceed the true
// remaining plan cost, so every produced CostPartitioningHeuristic is
// admissible, and so is the maximum over any set of them.
//
// The pieces:
//
//   - OrderGenerator (original, random, greedy, dynamic greedy) decides
//     the abstraction order for a given abstract state vector.
//   - ComputeSCP runs one order and emits a reusable
//     CostPartitioningHeuristic of whole lookup tables.
//   - ComputePerimSCP is the cheap first phase of the PERIMSTAR
//     saturator: per abstraction it caps the stored table at the
//     evaluated state's distance and saturates against the capped
//     values, which subtracts less and leaves more cost to later
//     abstractions.
//   - UnsolvabilityOracle short-circuits states some abstraction
//     already knows to be dead ends.
//   - OnlineHeuristic answers per-state queries: it maximizes over the
//     stored partitions, and during the improvement phase computes
//     fresh ones for selected states (every k-th state, or only states
//     containing a novel fact or fact pair), keeping those that beat
//     the running maximum. When the time or memory budget runs out it
//     extracts compact abstraction functions for the abstractions still
//     referenced, releases the heavy projections, and keeps answering
//     from the stored tables.
//
// Errors (sentinel):
//
//	– ErrDeadEnd          returned by Compute for unsolvable states.
//	– ErrNoAbstractions   if the abstraction list is empty.
//	– ErrNoOrderGenerator if no order generator is configured.
//	– ErrBadInterval      if the SCP trigger interval is not ≥ 1, -1, or -2.
//	– ErrBadBudget        if a time or size budget is not positive.
package scp
