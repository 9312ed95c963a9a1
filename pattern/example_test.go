package pattern_test

import (
	"fmt"

	"github.com/katalvlaran/costsat/pattern"
	"github.com/katalvlaran/costsat/task"
)

// Grow a projection collection over singleton patterns and watch the
// shared operator's cost shrink as each projection saturates it.
func ExampleGenerate() {
	tk, _ := task.New(
		[]int{2, 2},
		[]task.Operator{
			{Cost: 10, Eff: []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}}},
			{Cost: 4, Eff: []task.Fact{{Var: 0, Value: 1}}},
			{Cost: 4, Eff: []task.Fact{{Var: 1, Value: 1}}},
		},
		task.State{0, 0},
		[]task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
	)

	opts := pattern.DefaultOptions()
	opts.MaxPatternSize = 1
	coll, _ := pattern.Generate(tk, opts)

	for _, p := range coll.Patterns() {
		fmt.Println(p)
	}
	fmt.Println(coll.RemainingCosts())
	// Output:
	// [0]
	// [1]
	// [2 0 0]
}
