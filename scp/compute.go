package scp

import (
	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/task"
)

// ComputeSCP runs one saturated cost partitioning over the abstractions
// in the given order, starting from the given cost vector (which is not
// modified).
//
// Per abstraction: compute goal distances under the remaining costs,
// keep them as the abstraction's lookup table, saturate, and subtract
// the saturated costs (clamped to [0, remaining]) before moving on.
// The summed lookups of the result never exceed the cost of any real
// plan paid for by the input vector.
func ComputeSCP(
	abstractions []projection.Abstraction,
	order []int,
	costs []int,
) CostPartitioningHeuristic {
	remaining := append([]int(nil), costs...)

	var cp CostPartitioningHeuristic
	for _, idx := range order {
		a := abstractions[idx]
		distances := a.GoalDistances(remaining)
		cp.addTable(idx, distances)
		saturated := a.SaturatedCosts(distances)
		projection.ReduceCosts(remaining, saturated)
	}

	return cp
}

// ComputePerimSCP runs the perimeter phase of the PERIMSTAR saturator:
// a cost partitioning that only pays for the distances up to the
// evaluated state's own distance in each abstraction.
//
// Per abstraction, with d the goal distances under the remaining costs
// and bound = d at the evaluated state's abstract index: the stored
// table is d capped at bound (states beyond the perimeter, reachable or
// not, are charged the bound, which any path from them must pay before
// entering the perimeter — the capped table stays admissible). The
// saturated costs of the capped table are what is subtracted, and they
// are never larger than the full saturation, so later abstractions see
// more remaining cost than under ComputeSCP.
//
// remaining is reduced in place, letting the caller stack a full
// saturation pass on the leftovers (see OnlineHeuristic).
func ComputePerimSCP(
	abstractions []projection.Abstraction,
	order []int,
	remaining []int,
	abstractStateIDs []int,
) CostPartitioningHeuristic {
	var cp CostPartitioningHeuristic
	for _, idx := range order {
		a := abstractions[idx]
		distances := a.GoalDistances(remaining)
		bound := distances[abstractStateIDs[idx]]

		table := distances
		if bound < task.Infinity {
			table = make([]int, len(distances))
			for i, v := range distances {
				if v > bound {
					v = bound
				}
				table[i] = v
			}
		}
		// bound = ∞ degenerates to the full table; the state is a dead
		// end in this abstraction and there is no perimeter to cap at.

		cp.addTable(idx, table)
		saturated := a.SaturatedCosts(table)
		projection.ReduceCosts(remaining, saturated)
	}

	return cp
}
