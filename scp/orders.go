package scp

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/costsat/projection"
)

// OrderGenerator produces, per queried abstract-state vector, the order
// in which cost partitioning visits the abstractions.
//
// Initialize is called once with the abstraction list and the original
// cost vector before any StateOrder call. StateOrder returns a
// permutation of the abstraction indices; firstCall is true for the
// first evaluated state, letting stateless generators compute a single
// fixed order lazily.
type OrderGenerator interface {
	Initialize(abstractions []projection.Abstraction, costs []int)
	StateOrder(abstractStateIDs []int, firstCall bool) []int
}

// OriginalOrders keeps the abstraction list order.
type OriginalOrders struct {
	n int
}

// NewOriginalOrders returns the identity order generator.
func NewOriginalOrders() *OriginalOrders { return &OriginalOrders{} }

// Initialize records the abstraction count.
func (g *OriginalOrders) Initialize(abstractions []projection.Abstraction, _ []int) {
	g.n = len(abstractions)
}

// StateOrder returns the identity permutation.
func (g *OriginalOrders) StateOrder(_ []int, _ bool) []int {
	return identity(g.n)
}

// RandomOrders shuffles the abstraction order per queried state with a
// seeded source, so runs are reproducible.
type RandomOrders struct {
	n   int
	rng *rand.Rand
}

// NewRandomOrders returns a seeded random order generator.
func NewRandomOrders(seed int64) *RandomOrders {
	return &RandomOrders{rng: rand.New(rand.NewSource(seed))}
}

// Initialize records the abstraction count.
func (g *RandomOrders) Initialize(abstractions []projection.Abstraction, _ []int) {
	g.n = len(abstractions)
}

// StateOrder returns a fresh shuffle.
func (g *RandomOrders) StateOrder(_ []int, _ bool) []int {
	order := identity(g.n)
	g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	return order
}

// GreedyOrders ranks abstractions by their goal distance for the
// queried state under the original costs, highest first, breaking ties
// towards smaller abstractions. Distance tables are computed once at
// Initialize.
type GreedyOrders struct {
	hValues   [][]int
	numStates []int
}

// NewGreedyOrders returns the static greedy order generator.
func NewGreedyOrders() *GreedyOrders { return &GreedyOrders{} }

// Initialize precomputes every abstraction's distance table under the
// original costs.
func (g *GreedyOrders) Initialize(abstractions []projection.Abstraction, costs []int) {
	g.hValues = make([][]int, len(abstractions))
	g.numStates = make([]int, len(abstractions))
	for i, a := range abstractions {
		g.hValues[i] = a.GoalDistances(costs)
		g.numStates[i] = a.NumStates()
	}
}

// StateOrder sorts the abstraction indices by h value descending, ties
// by smaller state count, then by index. The sort is stable by
// construction of the final tie-break.
func (g *GreedyOrders) StateOrder(abstractStateIDs []int, _ bool) []int {
	order := identity(len(g.hValues))
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		hi, hj := g.hValues[i][abstractStateIDs[i]], g.hValues[j][abstractStateIDs[j]]
		if hi != hj {
			return hi > hj
		}

		return g.numStates[i] < g.numStates[j]
	})

	return order
}

// DynamicGreedyOrders re-scores the remaining abstractions after every
// pick: it simulates the saturated cost-partitioning loop, choosing at
// each step the abstraction with the highest distance for the queried
// state under the current remaining costs. Considerably more expensive
// than GreedyOrders, considerably better informed.
type DynamicGreedyOrders struct {
	abstractions []projection.Abstraction
	costs        []int
}

// NewDynamicGreedyOrders returns the dynamic greedy order generator.
func NewDynamicGreedyOrders() *DynamicGreedyOrders { return &DynamicGreedyOrders{} }

// Initialize keeps the abstraction list and original costs.
func (g *DynamicGreedyOrders) Initialize(abstractions []projection.Abstraction, costs []int) {
	g.abstractions = abstractions
	g.costs = append([]int(nil), costs...)
}

// StateOrder greedily assembles the order, subtracting each picked
// abstraction's saturated costs before scoring the rest.
func (g *DynamicGreedyOrders) StateOrder(abstractStateIDs []int, _ bool) []int {
	remaining := append([]int(nil), g.costs...)
	available := identity(len(g.abstractions))
	order := make([]int, 0, len(available))

	for len(available) > 0 {
		bestPos := -1
		bestH := -1
		var bestDistances []int
		for pos, idx := range available {
			d := g.abstractions[idx].GoalDistances(remaining)
			h := d[abstractStateIDs[idx]]
			better := h > bestH
			if h == bestH && bestPos >= 0 {
				better = g.abstractions[idx].NumStates() <
					g.abstractions[available[bestPos]].NumStates()
			}
			if better {
				bestPos, bestH, bestDistances = pos, h, d
			}
		}

		idx := available[bestPos]
		order = append(order, idx)
		available = append(available[:bestPos], available[bestPos+1:]...)
		saturated := g.abstractions[idx].SaturatedCosts(bestDistances)
		projection.ReduceCosts(remaining, saturated)
	}

	return order
}

// identity returns the permutation 0..n-1.
func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	return order
}
