package scp_test

import (
	"fmt"

	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/scp"
	"github.com/katalvlaran/costsat/task"
)

// Partition a shared operator's cost between two projections: each
// keeps its dedicated cost, and the partitioned sum does not exceed the
// cheapest real plan.
func ExampleComputeSCP() {
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

	p0, _ := projection.New(tk, projection.Pattern{0})
	p1, _ := projection.New(tk, projection.Pattern{1})
	abstractions := []projection.Abstraction{p0, p1}

	cp := scp.ComputeSCP(abstractions, []int{0, 1}, tk.OperatorCosts())
	ids := []int{p0.AbstractStateID(tk.Initial()), p1.AbstractStateID(tk.Initial())}
	fmt.Println(cp.Value(ids))
	// Output:
	// 8
}
