// White-box tests for the systematic generator: enumeration, filtering,
// ordering policies, and restart behavior.
package pattern

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/costsat/task"
)

// chainTask builds the causal chain v0 → v1 → v2 with goal on v2.
func chainTask(t *testing.T) *task.Task {
	t.Helper()
	tk, err := task.New(
		[]int{2, 2, 2},
		[]task.Operator{
			{Cost: 1, Eff: []task.Fact{{Var: 0, Value: 1}}},
			{Cost: 1, Pre: []task.Fact{{Var: 0, Value: 1}}, Eff: []task.Fact{{Var: 1, Value: 1}}},
			{Cost: 1, Pre: []task.Fact{{Var: 1, Value: 1}}, Eff: []task.Fact{{Var: 2, Value: 1}}},
		},
		task.State{0, 0, 0},
		[]task.Fact{{Var: 2, Value: 1}},
	)
	require.NoError(t, err)

	return tk
}

func newTestGenerator(t *testing.T, tk *task.Task, order Order, maxSize int) *generator {
	t.Helper()
	opts := DefaultOptions()
	opts.Order = order
	opts.MaxPatternSize = maxSize

	return newGenerator(tk, &opts, rand.New(rand.NewSource(opts.Seed)), nil)
}

// drain pulls patterns until exhaustion.
func drain(t *testing.T, g *generator, used *pairMatrix) [][]int {
	t.Helper()
	deadline := time.Now().Add(time.Minute)
	var out [][]int
	for id := 0; ; id++ {
		vars, status := g.pattern(id, used, deadline)
		switch status {
		case patternOK:
			out = append(out, vars)
		case patternExhausted:
			return out
		default:
			t.Fatalf("unexpected generator status %v", status)
		}
	}
}

func TestGenerator_EnumeratesBySizeThenLexicographic(t *testing.T) {
	tk := chainTask(t)
	g := newTestGenerator(t, tk, OrderOriginal, 3)

	got := drain(t, g, newPairMatrix(3))
	want := [][]int{
		{0}, {1}, {2}, // size 1
		{0, 1}, {1, 2}, // size 2: {0,2} is causally disconnected
		{0, 1, 2}, // size 3
	}
	require.Equal(t, want, got)
	require.Equal(t, 6, g.numGeneratedPatterns())
	require.Equal(t, 3, g.maxGeneratedSize())
}

func TestGenerator_SGAFiltering(t *testing.T) {
	// Two goals with disjoint ancestor chains: v0 → v1 (goal) and v2 (goal).
	tk, err := task.New(
		[]int{2, 2, 2},
		[]task.Operator{
			{Cost: 1, Eff: []task.Fact{{Var: 0, Value: 1}}},
			{Cost: 1, Pre: []task.Fact{{Var: 0, Value: 1}}, Eff: []task.Fact{{Var: 1, Value: 1}}},
			{Cost: 1, Eff: []task.Fact{{Var: 2, Value: 1}}},
		},
		task.State{0, 0, 0},
		[]task.Fact{{Var: 1, Value: 1}, {Var: 2, Value: 1}},
	)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Order = OrderOriginal
	opts.OnlySGAPatterns = true
	g := newGenerator(tk, &opts, rand.New(rand.NewSource(1)), nil)

	got := drain(t, g, newPairMatrix(3))
	// {0,1} sits inside goal v1's ancestors; no connected pattern can mix
	// the two goal components.
	require.Equal(t, [][]int{{0}, {1}, {2}, {0, 1}}, got)
}

func TestGenerator_ReverseOrderIsPerBucket(t *testing.T) {
	tk := chainTask(t)
	g := newTestGenerator(t, tk, OrderReverse, 2)

	got := drain(t, g, newPairMatrix(3))
	require.Equal(t, [][]int{{2}, {1}, {0}, {1, 2}, {0, 1}}, got)
}

func TestGenerator_PDBSizeUpIsStableOnTies(t *testing.T) {
	// Domains 2, 4, 2: size-1 buckets score 2, 4, 2.
	tk, err := task.New(
		[]int{2, 4, 2},
		[]task.Operator{
			{Cost: 1, Eff: []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}, {Var: 2, Value: 1}}},
		},
		task.State{0, 0, 0},
		[]task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}, {Var: 2, Value: 1}},
	)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Order = OrderPDBSizeUp
	opts.MaxPatternSize = 1
	g := newGenerator(tk, &opts, rand.New(rand.NewSource(1)), nil)

	got := drain(t, g, newPairMatrix(3))
	// v0 and v2 tie at 2 and keep enumeration order; v1 (4 states) last.
	require.Equal(t, [][]int{{0}, {2}, {1}}, got)
}

func TestGenerator_RandomOrderIsSeededAndRestartDependent(t *testing.T) {
	tk := chainTask(t)

	first := drain(t, newTestGenerator(t, tk, OrderRandom, 2), newPairMatrix(3))
	second := drain(t, newTestGenerator(t, tk, OrderRandom, 2), newPairMatrix(3))
	require.Equal(t, first, second, "same seed, same shuffle")

	g := newTestGenerator(t, tk, OrderRandom, 2)
	used := newPairMatrix(3)
	before := drain(t, g, used)
	g.restart(used)
	after := drain(t, g, used)
	require.ElementsMatch(t, before, after, "restart reshuffles but keeps the same patterns")
}

func TestGenerator_NewVarPairsReactsToUsage(t *testing.T) {
	tk := chainTask(t)
	g := newTestGenerator(t, tk, OrderNewVarPairsDown, 2)

	used := newPairMatrix(3)
	_ = drain(t, g, used)

	// Mark {0,1} as covered; after a restart the uncovered pair {1,2}
	// must come first in the size-2 bucket.
	used.markPattern([]int{0, 1})
	g.restart(used)

	got := drain(t, g, used)
	require.Equal(t, []int{1, 2}, got[3], "uncovered pair ranks before the covered one")
	require.Equal(t, []int{0, 1}, got[4])
}

func TestGenerator_TimeoutDiscardsPartialBucket(t *testing.T) {
	tk := chainTask(t)
	g := newTestGenerator(t, tk, OrderOriginal, 3)

	_, status := g.pattern(0, newPairMatrix(3), time.Now().Add(-time.Second))
	require.Equal(t, patternTimeout, status)
	require.Zero(t, g.numGeneratedPatterns())

	// With time available again the same id materializes normally.
	vars, status := g.pattern(0, newPairMatrix(3), time.Now().Add(time.Minute))
	require.Equal(t, patternOK, status)
	require.Equal(t, []int{0}, vars)
}

func TestScoringHelpers(t *testing.T) {
	require.Equal(t, 6, varSum([]int{1, 2, 3}))
	require.Equal(t, 1, varMin([]int{3, 1, 2}))
	require.Equal(t, 3, varMax([]int{3, 1, 2}))
	require.Equal(t, 8, pdbSize([]int{2, 2, 2}, []int{0, 1, 2}))
	require.Equal(t, -1, pdbSize([]int{1 << 16, 1 << 16}, []int{0, 1}))

	m := newPairMatrix(3)
	require.Equal(t, 3, newVarPairs([]int{0, 1, 2}, m))
	m.markPattern([]int{0, 1})
	require.Equal(t, 2, newVarPairs([]int{0, 1, 2}, m))
}
