package pattern

import "github.com/katalvlaran/costsat/task"

// arrayPool stores many same-sized int slices contiguously, one
// allocation per bucket instead of one per pattern.
type arrayPool struct {
	data    []int
	offsets []int
}

// append copies vars into the pool.
func (p *arrayPool) append(vars []int) {
	p.offsets = append(p.offsets, len(p.data))
	p.data = append(p.data, vars...)
}

// size returns the number of stored slices.
func (p *arrayPool) size() int { return len(p.offsets) }

// slice returns the i-th stored slice. Shared backing; do not mutate.
func (p *arrayPool) slice(i int) []int {
	start := p.offsets[i]
	end := len(p.data)
	if i+1 < len(p.offsets) {
		end = p.offsets[i+1]
	}

	return p.data[start:end]
}

// pairMatrix is a symmetric boolean matrix over variable pairs,
// recording which pairs are already covered by a selected pattern.
type pairMatrix struct {
	n    int
	used []bool
}

func newPairMatrix(n int) *pairMatrix {
	return &pairMatrix{n: n, used: make([]bool, n*n)}
}

// covered reports whether the pair (v1, v2) is marked.
func (m *pairMatrix) covered(v1, v2 int) bool { return m.used[v1*m.n+v2] }

// markPattern marks every ordered pair of pattern variables.
func (m *pairMatrix) markPattern(vars []int) {
	for _, v1 := range vars {
		for _, v2 := range vars {
			m.used[v1*m.n+v2] = true
		}
	}
}

// pdbSize returns the product of the pattern's domain sizes, or -1 when
// the product would exceed task.Infinity.
func pdbSize(domains []int, vars []int) int {
	size := 1
	for _, v := range vars {
		if size > task.Infinity/domains[v] {
			return -1
		}
		size *= domains[v]
	}

	return size
}

// varSum returns the sum of the pattern's variable ids.
func varSum(vars []int) int {
	sum := 0
	for _, v := range vars {
		sum += v
	}

	return sum
}

// varMin returns the smallest variable id.
func varMin(vars []int) int {
	res := vars[0]
	for _, v := range vars[1:] {
		if v < res {
			res = v
		}
	}

	return res
}

// varMax returns the largest variable id.
func varMax(vars []int) int {
	res := vars[0]
	for _, v := range vars[1:] {
		if v > res {
			res = v
		}
	}

	return res
}

// newVarPairs counts the pattern's variable pairs not yet covered.
func newVarPairs(vars []int, used *pairMatrix) int {
	count := 0
	for i, v1 := range vars {
		for _, v2 := range vars[i+1:] {
			if !used.covered(v1, v2) {
				count++
			}
		}
	}

	return count
}

// activeOpCount counts the operators with at least one effect inside
// the pattern. seen is a caller-owned scratch slice of task.NumOperators
// booleans, reset before returning.
func activeOpCount(t *task.Task, vars []int, seen []bool) int {
	count := 0
	var touched []int
	for _, v := range vars {
		for _, op := range t.RelevantOperators(v) {
			if !seen[op] {
				seen[op] = true
				count++
				touched = append(touched, op)
			}
		}
	}
	for _, op := range touched {
		seen[op] = false
	}

	return count
}
