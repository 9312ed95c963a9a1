package projection

import "github.com/katalvlaran/costsat/task"

// ReduceCosts subtracts a saturated cost function from a remaining cost
// vector in place, with the clamping conventions used throughout the
// engine:
//
//   - saturated entries are clamped to [0, remaining[o]] before the
//     subtraction, so remaining costs never grow and never go negative;
//   - an infinite remaining cost absorbs any subtraction (∞ − x = ∞,
//     including x = ∞).
func ReduceCosts(remaining, saturated []int) {
	if len(remaining) != len(saturated) {
		panic("projection: cost vector length mismatch")
	}
	for o, s := range saturated {
		if remaining[o] >= task.Infinity {
			continue
		}
		if s <= 0 {
			continue
		}
		if s > remaining[o] {
			s = remaining[o]
		}
		remaining[o] -= s
	}
}
