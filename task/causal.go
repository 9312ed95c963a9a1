package task

import "sort"

// CausalGraph captures the variable dependencies induced by operators:
// an arc u→v exists when some operator has a precondition on u and an
// effect on v (u influences how v can change), and arcs u↔v exist when
// some operator affects both u and v (co-occurring effects).
//
// The pattern machinery uses it two ways: restricting enumeration to
// variables that are ancestors of a goal variable, and checking that a
// candidate pattern is connected (a disconnected pattern never beats
// the sum of its components).
type CausalGraph struct {
	succ [][]int // succ[v] = sorted successor variables of v
	pred [][]int // pred[v] = sorted predecessor variables of v

	goalAncestors []bool // variables from which some goal variable is reachable
}

// newCausalGraph builds the causal graph for a validated task.
func newCausalGraph(t *Task) *CausalGraph {
	n := t.NumVariables()

	// Dedup arcs through a boolean matrix; tasks are small enough that
	// n² booleans beat repeated sorted-slice searches.
	arcs := make([][]bool, n)
	for v := range arcs {
		arcs[v] = make([]bool, n)
	}
	for _, op := range t.operators {
		for _, p := range op.Pre {
			for _, e := range op.Eff {
				if p.Var != e.Var {
					arcs[p.Var][e.Var] = true
				}
			}
		}
		for _, e1 := range op.Eff {
			for _, e2 := range op.Eff {
				if e1.Var != e2.Var {
					arcs[e1.Var][e2.Var] = true
				}
			}
		}
	}

	cg := &CausalGraph{
		succ: make([][]int, n),
		pred: make([][]int, n),
	}
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if arcs[u][v] {
				cg.succ[u] = append(cg.succ[u], v)
				cg.pred[v] = append(cg.pred[v], u)
			}
		}
	}

	// goalAncestors = union of Ancestors(g) over all goal variables.
	cg.goalAncestors = make([]bool, n)
	for _, f := range t.goal {
		for v, in := range cg.Ancestors(f.Var) {
			if in {
				cg.goalAncestors[v] = true
			}
		}
	}

	return cg
}

// Successors returns the sorted successor variables of v. Shared slice;
// do not mutate.
func (cg *CausalGraph) Successors(v int) []int { return cg.succ[v] }

// Predecessors returns the sorted predecessor variables of v. Shared
// slice; do not mutate.
func (cg *CausalGraph) Predecessors(v int) []int { return cg.pred[v] }

// Ancestors returns a membership vector of the variables from which v
// is reachable via causal arcs. v itself is always a member.
func (cg *CausalGraph) Ancestors(v int) []bool {
	seen := make([]bool, len(cg.pred))
	seen[v] = true
	stack := []int{v}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range cg.pred[cur] {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}

	return seen
}

// IsGoalAncestor reports whether variable v is an ancestor of at least
// one goal variable. Patterns restricted to goal ancestors are the only
// ones that can carry heuristic information.
func (cg *CausalGraph) IsGoalAncestor(v int) bool { return cg.goalAncestors[v] }

// GoalAncestors returns the sorted ids of all goal-ancestor variables.
func (cg *CausalGraph) GoalAncestors() []int {
	var out []int
	for v, in := range cg.goalAncestors {
		if in {
			out = append(out, v)
		}
	}
	sort.Ints(out)

	return out
}

// Connected reports whether the given variables induce a weakly
// connected subgraph of the causal graph. Singleton sets are connected;
// the empty set is not.
func (cg *CausalGraph) Connected(vars []int) bool {
	if len(vars) == 0 {
		return false
	}
	if len(vars) == 1 {
		return true
	}

	inSet := make(map[int]bool, len(vars))
	for _, v := range vars {
		inSet[v] = true
	}

	// Undirected BFS from the first variable, restricted to the set.
	seen := map[int]bool{vars[0]: true}
	queue := []int{vars[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, lists := range [][]int{cg.succ[cur], cg.pred[cur]} {
			for _, next := range lists {
				if inSet[next] && !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	return len(seen) == len(vars)
}
