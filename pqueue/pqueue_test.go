// Package pqueue_test contains unit tests for the adaptive priority
// queue: ordering, tie-breaking, mode switching, and reuse.
package pqueue_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/costsat/pqueue"
)

func TestAdaptiveQueue_PopsInKeyOrder(t *testing.T) {
	var q pqueue.AdaptiveQueue
	q.Push(3, 30)
	q.Push(0, 0)
	q.Push(2, 20)
	q.Push(1, 10)

	var keys []int
	for {
		k, v, ok := q.Pop()
		if !ok {
			break
		}
		require.Equal(t, k*10, v)
		keys = append(keys, k)
	}
	require.Equal(t, []int{0, 1, 2, 3}, keys)
}

func TestAdaptiveQueue_EmptyPop(t *testing.T) {
	var q pqueue.AdaptiveQueue
	_, _, ok := q.Pop()
	require.False(t, ok)
	require.Zero(t, q.Len())
}

func TestAdaptiveQueue_FIFOWithinBucket(t *testing.T) {
	// Equal keys in bucket mode pop in insertion order.
	var q pqueue.AdaptiveQueue
	q.Push(5, 1)
	q.Push(5, 2)
	q.Push(5, 3)

	for want := 1; want <= 3; want++ {
		_, v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

func TestAdaptiveQueue_HeapModeTieBreaksByValue(t *testing.T) {
	var q pqueue.AdaptiveQueue
	// A single huge key forces the permanent switch to heap mode.
	q.Push(1_000_000, 99)
	_, _, _ = q.Pop()

	q.Push(7, 3)
	q.Push(7, 1)
	q.Push(7, 2)
	for want := 1; want <= 3; want++ {
		k, v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, 7, k)
		require.Equal(t, want, v)
	}
}

func TestAdaptiveQueue_SwitchPreservesContents(t *testing.T) {
	var q pqueue.AdaptiveQueue
	q.Push(2, 200)
	q.Push(0, 0)
	q.Push(1, 100)
	// Trigger the conversion while entries are queued.
	q.Push(500_000, 5)

	require.Equal(t, 4, q.Len())
	var got []int
	for {
		k, _, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, k)
	}
	require.Equal(t, []int{0, 1, 2, 500_000}, got)
}

func TestAdaptiveQueue_ClearRetainsUsability(t *testing.T) {
	var q pqueue.AdaptiveQueue
	for i := 0; i < 50; i++ {
		q.Push(i%7, i)
	}
	q.Clear()
	require.Zero(t, q.Len())

	q.Push(1, 42)
	k, v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, k)
	require.Equal(t, 42, v)
}

func TestAdaptiveQueue_NegativeKeyPanics(t *testing.T) {
	var q pqueue.AdaptiveQueue
	require.Panics(t, func() { q.Push(-1, 0) })
}

func TestAdaptiveQueue_RandomizedAgainstSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var q pqueue.AdaptiveQueue
	keys := make([]int, 500)
	for i := range keys {
		keys[i] = rng.Intn(64)
		q.Push(keys[i], i)
	}
	sort.Ints(keys)

	for _, want := range keys {
		k, _, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, k)
	}
	require.Zero(t, q.Len())
}
