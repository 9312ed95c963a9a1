// Package scp_test: unit tests for the online saturated cost
// partitioning heuristic.
package scp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/scp"
	"github.com/katalvlaran/costsat/task"
)

func onlineOptions() scp.OnlineOptions {
	opts := scp.DefaultOnlineOptions()
	opts.Orders = scp.NewOriginalOrders()

	return opts
}

func TestNewOnline_Validation(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0})

	_, err := scp.NewOnline(tk, nil, onlineOptions())
	require.ErrorIs(t, err, scp.ErrNoAbstractions)

	opts := onlineOptions()
	opts.Orders = nil
	_, err = scp.NewOnline(tk, abstractions, opts)
	require.ErrorIs(t, err, scp.ErrNoOrderGenerator)

	opts = onlineOptions()
	opts.Interval = 0
	_, err = scp.NewOnline(tk, abstractions, opts)
	require.ErrorIs(t, err, scp.ErrBadInterval)

	opts = onlineOptions()
	opts.Interval = -3
	_, err = scp.NewOnline(tk, abstractions, opts)
	require.ErrorIs(t, err, scp.ErrBadInterval)

	opts = onlineOptions()
	opts.MaxTime = 0
	_, err = scp.NewOnline(tk, abstractions, opts)
	require.ErrorIs(t, err, scp.ErrBadBudget)
}

func TestOnline_MaxOverStoredPartitions(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.UseEvaluatedStateAsSample = true
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	v, errC := h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, 8, v)
	require.LessOrEqual(t, v, optimalCost(tk, tk.Initial()))

	stats := h.Statistics()
	require.Equal(t, 1, stats.EvaluatedStates)
	require.Equal(t, 1, stats.ComputedSCPs)
	require.Equal(t, 1, stats.StoredSCPs, "the first partition beats the empty maximum")

	// The same state again: the fresh partition cannot beat the stored
	// one, so nothing new is kept.
	v, errC = h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, 8, v)
	require.Equal(t, 2, h.Statistics().ComputedSCPs)
	require.Equal(t, 1, h.Statistics().StoredSCPs)
}

func TestOnline_IntervalSkipsStates(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.Interval = 2
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, errC := h.Compute(tk.Initial())
		require.NoError(t, errC)
	}
	require.Equal(t, 2, h.Statistics().ComputedSCPs, "every second state triggers a partition")
}

// Scenario: a state one abstraction proves unsolvable short-circuits to
// a dead end, without counting as an evaluated state.
func TestOnline_DeadEndShortCircuits(t *testing.T) {
	tk := mustTask(t,
		[]int{3, 2},
		[]task.Operator{
			{Cost: 1, Pre: []task.Fact{{Var: 0, Value: 0}}, Eff: []task.Fact{{Var: 0, Value: 1}}},
			{Cost: 1, Eff: []task.Fact{{Var: 1, Value: 1}}},
		},
		task.State{0, 0},
		[]task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
	)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	h, err := scp.NewOnline(tk, abstractions, onlineOptions())
	require.NoError(t, err)
	require.True(t, h.DeadEndsAreReliable())

	_, errC := h.Compute(task.State{2, 0})
	require.ErrorIs(t, errC, scp.ErrDeadEnd)

	stats := h.Statistics()
	require.Zero(t, stats.EvaluatedStates)
	require.Zero(t, stats.ComputedSCPs, "no partition is consulted or computed for a dead end")
}

// Scenario: PERIMSTAR pays for the full saturation pass only when the
// perimeter pass improves on the stored maximum.
func TestOnline_PerimstarSkipsFullPassWhenNotImproving(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.Saturator = scp.SaturatorPerimstar
	opts.UseEvaluatedStateAsSample = true
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	// First query: the perimeter pass beats the empty maximum, so the
	// full pass is stacked on top and the result is stored.
	v, errC := h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, 8, v)
	require.Equal(t, 1, h.Statistics().ComputedSCPs)
	require.Equal(t, 1, h.Statistics().StoredSCPs)

	// Second query of the same state: the perimeter value only matches
	// the stored maximum, so the full pass is skipped and nothing new is
	// stored, yet the computation still counts.
	v, errC = h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, 8, v)
	require.Equal(t, 2, h.Statistics().ComputedSCPs)
	require.Equal(t, 1, h.Statistics().StoredSCPs)
}

func TestOnline_PerimstarStaysAdmissible(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.Saturator = scp.SaturatorPerimstar
	opts.UseEvaluatedStateAsSample = true
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	states := []task.State{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for _, s := range states {
		v, errC := h.Compute(s)
		require.NoError(t, errC)
		require.LessOrEqual(t, v, optimalCost(tk, s), "state %v", s)
	}
	// Stored partitions must stay admissible at every other state too.
	for _, s := range states {
		v, errC := h.Compute(s)
		require.NoError(t, errC)
		require.LessOrEqual(t, v, optimalCost(tk, s), "state %v", s)
	}
}

// Scenario: with 1-novelty triggering, a successor reusing only known
// facts must not trigger a partition; a successor with a fresh fact
// must.
func TestOnline_NoveltyTrigger(t *testing.T) {
	tk := mustTask(t,
		[]int{2, 2, 2},
		[]task.Operator{
			{Cost: 1, Eff: []task.Fact{{Var: 0, Value: 1}}}, // a
			{Cost: 1, Eff: []task.Fact{{Var: 1, Value: 1}}}, // d
			{Cost: 1, Eff: []task.Fact{{Var: 0, Value: 0}}}, // e
			{Cost: 1, Eff: []task.Fact{{Var: 2, Value: 1}}}, // f
		},
		task.State{0, 0, 0},
		[]task.Fact{{Var: 0, Value: 1}},
	)
	abstractions := mustProjections(t, tk, projection.Pattern{0})

	opts := onlineOptions()
	opts.Interval = scp.IntervalNovelFacts
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	s0 := task.State{0, 0, 0}
	h.NotifyInitialState(s0)

	// The initial state is novel by definition.
	_, errC := h.Compute(s0)
	require.NoError(t, errC)
	require.Equal(t, 1, h.Statistics().ComputedSCPs)

	// s1 introduces the fresh fact v0=1.
	s1 := task.State{1, 0, 0}
	h.NotifyStateTransition(s0, 0, s1)
	_, errC = h.Compute(s1)
	require.NoError(t, errC)
	require.Equal(t, 2, h.Statistics().ComputedSCPs)

	// s2 introduces v1=1.
	s2 := task.State{1, 1, 0}
	h.NotifyStateTransition(s1, 1, s2)
	_, errC = h.Compute(s2)
	require.NoError(t, errC)
	require.Equal(t, 3, h.Statistics().ComputedSCPs)

	// s3 = (0,1,0) reuses only facts seen before: no new partition.
	s3 := task.State{0, 1, 0}
	h.NotifyStateTransition(s2, 2, s3)
	_, errC = h.Compute(s3)
	require.NoError(t, errC)
	require.Equal(t, 3, h.Statistics().ComputedSCPs, "a non-novel state must not trigger a partition")

	// s4 introduces v2=1: novel again.
	s4 := task.State{0, 1, 1}
	h.NotifyStateTransition(s3, 3, s4)
	_, errC = h.Compute(s4)
	require.NoError(t, errC)
	require.Equal(t, 4, h.Statistics().ComputedSCPs)
}

func TestOnline_PairNoveltyTrigger(t *testing.T) {
	tk := mustTask(t,
		[]int{2, 2},
		[]task.Operator{
			{Cost: 1, Eff: []task.Fact{{Var: 0, Value: 1}}},
			{Cost: 1, Eff: []task.Fact{{Var: 1, Value: 1}}},
		},
		task.State{0, 0},
		[]task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
	)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.Interval = scp.IntervalNovelFactPairs
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	s0 := task.State{0, 0}
	h.NotifyInitialState(s0)
	_, errC := h.Compute(s0)
	require.NoError(t, errC)
	require.Equal(t, 1, h.Statistics().ComputedSCPs)

	// (1,0) brings the unseen pair {v0=1, v1=0}.
	s1 := task.State{1, 0}
	h.NotifyStateTransition(s0, 0, s1)
	_, errC = h.Compute(s1)
	require.NoError(t, errC)
	require.Equal(t, 2, h.Statistics().ComputedSCPs)
}

func TestOnline_ImprovementPhaseEndsOnBudget(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.UseEvaluatedStateAsSample = true
	opts.MaxTime = time.Nanosecond // expires on the first query
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	v, errC := h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.False(t, h.Statistics().Improving)

	// Queries keep working from whatever was extracted.
	v2, errC := h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, v, v2)
	require.Equal(t, h.Statistics().ComputedSCPs, 0,
		"no partitions are computed once improvement stopped")
}

func TestOnline_AnswersSurviveExtraction(t *testing.T) {
	tk := sharedOpTask(t)
	abstractions := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})

	opts := onlineOptions()
	opts.UseEvaluatedStateAsSample = true
	h, err := scp.NewOnline(tk, abstractions, opts)
	require.NoError(t, err)

	// Store a partition, then drain the budget with further queries
	// until extraction happens.
	first, errC := h.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, 8, first)

	opts2 := onlineOptions()
	opts2.UseEvaluatedStateAsSample = true
	opts2.MaxTime = 5 * time.Millisecond
	abstractions2 := mustProjections(t, tk, projection.Pattern{0}, projection.Pattern{1})
	h2, err := scp.NewOnline(tk, abstractions2, opts2)
	require.NoError(t, err)

	deadline := time.Now().Add(time.Second)
	for h2.Statistics().Improving && time.Now().Before(deadline) {
		_, errC = h2.Compute(tk.Initial())
		require.NoError(t, errC)
	}
	require.False(t, h2.Statistics().Improving)

	v, errC := h2.Compute(tk.Initial())
	require.NoError(t, errC)
	require.Equal(t, 8, v, "stored tables keep answering after the heavy abstractions are gone")
}
