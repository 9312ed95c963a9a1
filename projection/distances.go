package projection

import "github.com/katalvlaran/costsat/task"

// GoalDistances computes, per abstract state, the cheapest cost of
// reaching an abstract goal state under the given per-operator cost
// vector. Unreachable states get task.Infinity.
//
// The search is a backward Dijkstra from the goal states over the
// regression match tree: popping an abstract successor index i yields
// the abstract operators consistent with i, and each one identifies its
// unique predecessor j = i + delta. The queue pops ties by (distance,
// index), so the settle order is deterministic. Costs ≥ task.Infinity
// are never relaxed.
//
// The cost vector must have one entry per task operator. The returned
// slice is freshly allocated; callers own it.
func (pr *Projection) GoalDistances(costs []int) []int {
	pr.checkTransitionSystem()
	if len(costs) != pr.numOps {
		panic("projection: cost vector length mismatch")
	}

	d := make([]int, pr.numStates)
	for i := range d {
		d[i] = task.Infinity
	}

	pr.queue.Clear()
	for _, g := range pr.goalStates {
		d[g] = 0
		pr.queue.Push(0, g)
	}

	for {
		dist, i, ok := pr.queue.Pop()
		if !ok {
			break
		}
		if dist > d[i] {
			continue // stale queue entry
		}
		pr.decode(i, pr.scratchV)
		pr.scratchOp = pr.scratchOp[:0]
		pr.tree.collect(pr.scratchV, &pr.scratchOp)
		for _, ai := range pr.scratchOp {
			a := pr.abstractOps[ai]
			c := costs[a.op]
			if c >= task.Infinity {
				continue
			}
			j := i + a.delta
			if nd := dist + c; nd < d[j] {
				d[j] = nd
				pr.queue.Push(nd, j)
			}
		}
	}

	return d
}

// SaturatedCosts returns, per operator, the minimum cost under which
// recomputing GoalDistances would reproduce h exactly.
//
// For each state-changing abstract transition pred→succ the operator
// must keep cost ≥ h[pred] − h[succ]:
//
//   - transitions with h[pred] = ∞ impose nothing and are ignored;
//   - a finite predecessor reaching an infinite successor forces the
//     operator to stay forbidden (cost ∞), otherwise the successor's
//     infinite distance could not survive;
//   - operators without any state-changing transition, and abstractions
//     whose h is uniformly infinite, get 0.
//
// The result may contain negative entries; clamping to [0, cost] is
// the caller's concern (see ReduceCosts).
func (pr *Projection) SaturatedCosts(h []int) []int {
	pr.checkTransitionSystem()
	if len(h) != pr.numStates {
		panic("projection: distance vector length mismatch")
	}

	const unset = -task.Infinity
	sat := make([]int, pr.numOps)
	for o := range sat {
		sat[o] = unset
	}

	for succ := 0; succ < pr.numStates; succ++ {
		pr.decode(succ, pr.scratchV)
		pr.scratchOp = pr.scratchOp[:0]
		pr.tree.collect(pr.scratchV, &pr.scratchOp)
		for _, ai := range pr.scratchOp {
			a := pr.abstractOps[ai]
			pred := succ + a.delta
			hp := h[pred]
			if hp >= task.Infinity {
				continue
			}
			if h[succ] >= task.Infinity {
				sat[a.op] = task.Infinity

				continue
			}
			if needed := hp - h[succ]; needed > sat[a.op] {
				sat[a.op] = needed
			}
		}
	}

	for o := range sat {
		if sat[o] == unset {
			sat[o] = 0
		}
	}

	return sat
}

// checkTransitionSystem panics when the projection was already reduced
// to its abstraction function.
func (pr *Projection) checkTransitionSystem() {
	if pr.released {
		panic("projection: transition system already released")
	}
}
