package scp

import (
	"context"
	"log/slog"
	"time"

	"github.com/katalvlaran/costsat/projection"
	"github.com/katalvlaran/costsat/task"
)

// Cached novelty verdicts per state.
const (
	noveltyUnknown int8 = iota
	noveltyNovel
	noveltyNotNovel
)

// OnlineStatistics summarizes an online heuristic's activity so far.
type OnlineStatistics struct {
	// EvaluatedStates counts Compute calls that returned a value.
	EvaluatedStates int

	// ComputedSCPs counts computed cost partitionings, stored or not.
	ComputedSCPs int

	// StoredSCPs counts the partitions kept for future queries.
	StoredSCPs int

	// StoredLookupTables and StoredValues aggregate over the stored
	// partitions.
	StoredLookupTables int
	StoredValues       int

	// EstimatedSizeKB is the running size estimate of the stored
	// partitions.
	EstimatedSizeKB int

	// ImprovementTime is the time spent inside the heuristic while the
	// improvement phase was active.
	ImprovementTime time.Duration

	// Improving reports whether the improvement phase is still running.
	Improving bool
}

// OnlineHeuristic answers per-state lower bounds by maximizing over a
// growing set of saturated cost partitionings.
//
// While the improvement phase is active the heuristic owns the full
// abstractions and may compute a fresh partition for a queried state
// (every interval-th state, or when the state is novel). Once the time
// or size budget is exhausted, it extracts compact state mappers for
// the abstractions still referenced by a stored partition or by the
// unsolvability oracle, drops everything else, and serves all further
// queries from the stored lookup tables.
//
// Not safe for concurrent use.
type OnlineHeuristic struct {
	t    *task.Task
	opts OnlineOptions

	abstractions []projection.Abstraction  // until improvement ends
	mappers      []*projection.StateMapper // after improvement ends; nil = dropped
	partitions   []CostPartitioningHeuristic
	oracle       *UnsolvabilityOracle
	costs        []int // original operator costs

	improving       bool
	improvementTime time.Duration

	novelty      *noveltyTracker
	noveltyCache map[string]int8

	sizeKB       int
	numEvaluated int
	numSCPs      int

	ids []int // scratch abstract-state vector
}

// NewOnline builds the online heuristic over the given abstractions.
// The abstraction list is uniquely owned by the heuristic from here on:
// it will be released when the improvement phase ends.
func NewOnline(t *task.Task, abstractions []projection.Abstraction, opts OnlineOptions) (*OnlineHeuristic, error) {
	if len(abstractions) == 0 {
		return nil, ErrNoAbstractions
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	h := &OnlineHeuristic{
		t:            t,
		opts:         opts,
		abstractions: abstractions,
		costs:        t.OperatorCosts(),
		improving:    true,
		ids:          make([]int, len(abstractions)),
	}
	h.oracle = NewUnsolvabilityOracle(abstractions, t.NumOperators())
	opts.Orders.Initialize(abstractions, h.costs)

	if opts.Interval < 1 {
		h.novelty = newNoveltyTracker(t, opts.Interval)
		h.noveltyCache = make(map[string]int8)
	}

	return h, nil
}

// NotifyInitialState seeds the novelty tracker with the initial state.
// The initial state itself always counts as novel. No heuristic value
// is computed here.
func (h *OnlineHeuristic) NotifyInitialState(initial task.State) {
	if h.opts.Interval >= 1 {
		return
	}
	h.noveltyCache[stateKey(initial)] = noveltyNovel
	h.novelty.seedInitial(initial)
}

// NotifyStateTransition folds a search transition into the novelty
// tracker. The predecessor state is part of the boundary contract but
// carries no information the tracker needs.
func (h *OnlineHeuristic) NotifyStateTransition(_ task.State, op int, to task.State) {
	if !h.improving || h.opts.Interval >= 1 {
		return
	}
	key := stateKey(to)
	if h.noveltyCache[key] != noveltyUnknown {
		return // novelty is decided by the first transition reaching a state
	}

	start := time.Now()
	if h.novelty.observe(h.t.Operator(op), to) {
		h.noveltyCache[key] = noveltyNovel
	} else {
		h.noveltyCache[key] = noveltyNotNovel
	}
	h.improvementTime += time.Since(start)
}

// DeadEndsAreReliable reports whether ErrDeadEnd results are safe to
// prune on. Projections never flag a solvable state, so they are.
func (h *OnlineHeuristic) DeadEndsAreReliable() bool { return true }

// Compute returns an admissible lower bound on the remaining plan cost
// from the given state, or ErrDeadEnd when some abstraction proves the
// state unsolvable.
func (h *OnlineHeuristic) Compute(state task.State) (int, error) {
	var start time.Time
	if h.improving {
		start = time.Now()
	}

	h.computeAbstractStateIDs(state)
	if h.oracle.IsUnsolvable(h.ids) {
		if h.improving {
			h.improvementTime += time.Since(start)
		}

		return 0, ErrDeadEnd
	}

	maxH := 0
	for i := range h.partitions {
		if v := h.partitions[i].Value(h.ids); v > maxH {
			maxH = v
		}
	}

	if h.improving &&
		(h.improvementTime+time.Since(start) >= h.opts.MaxTime || h.sizeKB >= h.opts.MaxSizeKB) {
		h.finishImprovement()
	}

	if h.improving && h.shouldComputeSCP(state) {
		order := h.opts.Orders.StateOrder(h.ids, h.numEvaluated == 0)

		var cp CostPartitioningHeuristic
		if h.opts.Saturator == SaturatorPerimstar {
			// Cheap perimeter pass first; the full pass is only paid for
			// when the perimeter result already beats the running max.
			remaining := append([]int(nil), h.costs...)
			cp = ComputePerimSCP(h.abstractions, order, remaining, h.ids)
			h.numSCPs++

			v := cp.Value(h.ids)
			if v > maxH {
				cp.Add(ComputeSCP(h.abstractions, order, remaining))
			}
			maxH = h.storeIfDiverse(cp, v, maxH)
		} else {
			cp = ComputeSCP(h.abstractions, order, h.costs)
			h.numSCPs++
			maxH = h.storeIfDiverse(cp, cp.Value(h.ids), maxH)
		}
	}

	if h.improving {
		h.improvementTime += time.Since(start)
	}
	h.numEvaluated++

	return maxH, nil
}

// storeIfDiverse keeps the partition when diversification asks for it
// and it improves on the running maximum; either way it returns the
// updated maximum.
func (h *OnlineHeuristic) storeIfDiverse(cp CostPartitioningHeuristic, v, maxH int) int {
	if h.opts.UseEvaluatedStateAsSample && v > maxH {
		h.sizeKB += cp.EstimatedSizeKB()
		h.partitions = append(h.partitions, cp)
		h.logf("stored partition",
			slog.Int("stored", len(h.partitions)),
			slog.Int("size_kb", h.sizeKB))
	}
	if v > maxH {
		return v
	}

	return maxH
}

// shouldComputeSCP decides whether the current query warrants a fresh
// partition: every interval-th evaluated state, or a state the tracker
// flagged as novel.
func (h *OnlineHeuristic) shouldComputeSCP(state task.State) bool {
	if h.opts.Interval >= 1 {
		return h.numEvaluated%h.opts.Interval == 0
	}

	return h.noveltyCache[stateKey(state)] == noveltyNovel
}

// computeAbstractStateIDs fills the scratch vector from the full
// abstractions while improving, from the extracted mappers afterwards.
// Dropped abstractions map to -1; nothing stored references them.
func (h *OnlineHeuristic) computeAbstractStateIDs(state task.State) {
	if h.improving {
		for i, a := range h.abstractions {
			h.ids[i] = a.AbstractStateID(state)
		}

		return
	}
	for i, m := range h.mappers {
		if m != nil {
			h.ids[i] = m.AbstractStateID(state)
		} else {
			h.ids[i] = -1
		}
	}
}

// finishImprovement ends the improvement phase: extract state mappers
// for the abstractions still referenced by a stored partition or the
// oracle, release every heavy abstraction, and drop the novelty
// bookkeeping. Runs exactly once.
func (h *OnlineHeuristic) finishImprovement() {
	h.logf("stop heuristic improvement phase",
		slog.Int("evaluated_states", h.numEvaluated),
		slog.Int("computed_scps", h.numSCPs),
		slog.Int("stored_scps", len(h.partitions)),
		slog.Int("size_kb", h.sizeKB))
	h.improving = false

	useful := make([]bool, len(h.abstractions))
	h.oracle.MarkUseful(useful)
	for i := range h.partitions {
		h.partitions[i].MarkUseful(useful)
	}

	h.mappers = make([]*projection.StateMapper, len(h.abstractions))
	for i, a := range h.abstractions {
		if useful[i] {
			h.mappers[i] = a.ExtractFunction()
		}
	}
	h.abstractions = nil
	h.novelty = nil
	h.noveltyCache = nil
}

// Statistics returns the heuristic's counters so far.
func (h *OnlineHeuristic) Statistics() OnlineStatistics {
	stats := OnlineStatistics{
		EvaluatedStates: h.numEvaluated,
		ComputedSCPs:    h.numSCPs,
		StoredSCPs:      len(h.partitions),
		EstimatedSizeKB: h.sizeKB,
		ImprovementTime: h.improvementTime,
		Improving:       h.improving,
	}
	for i := range h.partitions {
		stats.StoredLookupTables += h.partitions[i].NumLookupTables()
		stats.StoredValues += h.partitions[i].NumStoredValues()
	}

	return stats
}

func (h *OnlineHeuristic) logf(msg string, attrs ...slog.Attr) {
	if h.opts.Logger != nil {
		h.opts.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}

// stateKey packs a state into a compact map key.
func stateKey(s task.State) string {
	b := make([]byte, 0, 4*len(s))
	for _, v := range s {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}

	return string(b)
}
