package scp

import (
	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/task"
)

// oracleEntry is one abstraction's infeasible-state bitmap.
type oracleEntry struct {
	abstraction int
	infeasible  []bool
}

// UnsolvabilityOracle records, per abstraction, which abstract states
// cannot reach a goal at all. Reachability does not depend on the
// magnitude of finite costs, so the bitmaps are computed once under
// unit costs and stay valid for every cost vector the engine produces.
// Only abstractions with at least one infeasible state get an entry.
type UnsolvabilityOracle struct {
	entries []oracleEntry
}

// NewUnsolvabilityOracle computes the bitmaps for the given
// abstractions.
func NewUnsolvabilityOracle(abstractions []projection.Abstraction, numOperators int) *UnsolvabilityOracle {
	unit := make([]int, numOperators)
	for i := range unit {
		unit[i] = 1
	}

	o := &UnsolvabilityOracle{}
	for idx, a := range abstractions {
		distances := a.GoalDistances(unit)
		var infeasible []bool
		for i, d := range distances {
			if d >= task.Infinity {
				if infeasible == nil {
					infeasible = make([]bool, len(distances))
				}
				infeasible[i] = true
			}
		}
		if infeasible != nil {
			o.entries = append(o.entries, oracleEntry{idx, infeasible})
		}
	}

	return o
}

// IsUnsolvable reports whether any abstraction marks the given abstract
// state vector as a dead end.
func (o *UnsolvabilityOracle) IsUnsolvable(abstractStateIDs []int) bool {
	for _, e := range o.entries {
		if e.infeasible[abstractStateIDs[e.abstraction]] {
			return true
		}
	}

	return false
}

// MarkUseful flags every abstraction holding an entry, so abstraction
// extraction keeps their state mappers alive.
func (o *UnsolvabilityOracle) MarkUseful(useful []bool) {
	for _, e := range o.entries {
		useful[e.abstraction] = true
	}
}
