package projection_test

import (
	"fmt"

	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/task"
)

// Build a two-variable task, project it onto the goal variable, and
// inspect distances and saturated costs.
func ExampleNew() {
	tk, _ := task.New(
		[]int{2, 2},
		[]task.Operator{
			{
				Cost: 3,
				Pre:  []task.Fact{{Var: 0, Value: 0}},
				Eff:  []task.Fact{{Var: 0, Value: 1}},
			},
		},
		task.State{0, 0},
		[]task.Fact{{Var: 0, Value: 1}},
	)

	pr, _ := projection.New(tk, projection.Pattern{0})
	distances := pr.GoalDistances(tk.OperatorCosts())
	fmt.Println(distances)
	fmt.Println(pr.SaturatedCosts(distances))
	// Output:
	// [3 0]
	// [3]
}
