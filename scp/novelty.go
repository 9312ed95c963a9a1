package scp

import "github.com/katalvlaran/costsat/task"

// noveltyTracker remembers which facts (1-novelty) or unordered fact
// pairs (2-novelty) have appeared in any evaluated state. Fact ids are
// the task's flat ids; the pair matrix is kept symmetric-by-convention
// by always indexing with the smaller id first.
type noveltyTracker struct {
	t    *task.Task
	mode int // IntervalNovelFacts or IntervalNovelFactPairs

	seenFacts []bool
	seenPairs [][]bool
}

func newNoveltyTracker(t *task.Task, mode int) *noveltyTracker {
	n := &noveltyTracker{t: t, mode: mode}
	numFacts := t.NumFacts()
	if mode == IntervalNovelFacts {
		n.seenFacts = make([]bool, numFacts)
	} else {
		n.seenPairs = make([][]bool, numFacts)
		for i := range n.seenPairs {
			n.seenPairs[i] = make([]bool, numFacts)
		}
	}

	return n
}

// seedInitial marks every fact (or fact pair) of the initial state as
// seen, so the very first successor states are judged against it.
func (n *noveltyTracker) seedInitial(s task.State) {
	numVars := n.t.NumVariables()
	if n.mode == IntervalNovelFacts {
		for v := 0; v < numVars; v++ {
			n.seenFacts[n.t.FactID(v, s[v])] = true
		}

		return
	}
	for v1 := 0; v1 < numVars; v1++ {
		id1 := n.t.FactID(v1, s[v1])
		for v2 := v1 + 1; v2 < numVars; v2++ {
			n.visitPair(id1, n.t.FactID(v2, s[v2]))
		}
	}
}

// observe folds a state transition into the tracker and reports whether
// it uncovered anything new. Only the operator's effects can introduce
// new facts; for pairs, each effect fact is crossed with the whole
// successor state.
func (n *noveltyTracker) observe(op task.Operator, to task.State) bool {
	novel := false
	if n.mode == IntervalNovelFacts {
		for _, f := range op.Eff {
			id := n.t.FactID(f.Var, f.Value)
			if !n.seenFacts[id] {
				n.seenFacts[id] = true
				novel = true
			}
		}

		return novel
	}

	numVars := n.t.NumVariables()
	for _, f := range op.Eff {
		id1 := n.t.FactID(f.Var, f.Value)
		for v2 := 0; v2 < numVars; v2++ {
			if v2 == f.Var {
				continue
			}
			if n.visitPair(id1, n.t.FactID(v2, to[v2])) {
				novel = true
			}
		}
	}

	return novel
}

// visitPair marks an unordered fact pair and reports whether it was
// unseen.
func (n *noveltyTracker) visitPair(id1, id2 int) bool {
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	novel := !n.seenPairs[id1][id2]
	n.seenPairs[id1][id2] = true

	return novel
}
