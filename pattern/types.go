// Package pattern: option surface and enumerations for the systematic
// pattern search. This file defines the ordering policies, dead-end
// treatments, the Options struct with defaults, and sentinel errors.
package pattern

import (
	"errors"
	"log/slog"
	"time"

	"github.com/katalvlaran/costsat/task"
)

// Sentinel errors for option validation.
var (
	// ErrBadPatternSize indicates MaxPatternSize < 1.
	ErrBadPatternSize = errors.New("pattern: MaxPatternSize must be at least 1")

	// ErrBadPDBSize indicates MaxPDBSize < 1.
	ErrBadPDBSize = errors.New("pattern: MaxPDBSize must be at least 1")

	// ErrBadCollectionSize indicates MaxCollectionSize < 1.
	ErrBadCollectionSize = errors.New("pattern: MaxCollectionSize must be at least 1")

	// ErrBadMaxPatterns indicates MaxPatterns < 1.
	ErrBadMaxPatterns = errors.New("pattern: MaxPatterns must be at least 1")

	// ErrBadTime indicates a non-positive time budget.
	ErrBadTime = errors.New("pattern: time budgets must be positive")

	// ErrBadOrder indicates an unknown ordering policy.
	ErrBadOrder = errors.New("pattern: unknown pattern order")

	// ErrBadDeadEnds indicates an unknown dead-end treatment.
	ErrBadDeadEnds = errors.New("pattern: unknown dead-end treatment")
)

// Order selects how patterns of equal size are ranked inside a bucket.
// All policies are stable on ties: patterns with equal scores keep the
// enumeration order.
type Order int

const (
	// OrderOriginal keeps the enumeration order.
	OrderOriginal Order = iota

	// OrderRandom shuffles each bucket, reshuffled on every restart.
	OrderRandom

	// OrderReverse reverses the enumeration order.
	OrderReverse

	// OrderPDBSizeUp ranks by product of domain sizes, smallest first.
	OrderPDBSizeUp

	// OrderPDBSizeDown ranks by product of domain sizes, largest first.
	OrderPDBSizeDown

	// OrderCGSumUp ranks by the sum of variable ids, smallest first.
	// Variable ids are a proxy for causal-graph position.
	OrderCGSumUp

	// OrderCGSumDown ranks by the sum of variable ids, largest first.
	OrderCGSumDown

	// OrderCGMinUp ranks by the minimum variable id, smallest first.
	OrderCGMinUp

	// OrderCGMinDown ranks by the minimum variable id, largest first.
	OrderCGMinDown

	// OrderCGMaxUp ranks by the maximum variable id, smallest first.
	OrderCGMaxUp

	// OrderCGMaxDown ranks by the maximum variable id, largest first.
	OrderCGMaxDown

	// OrderNewVarPairsUp ranks by the count of variable pairs not yet
	// covered by any selected pattern, smallest first. Recomputed on
	// every restart.
	OrderNewVarPairsUp

	// OrderNewVarPairsDown ranks like OrderNewVarPairsUp, largest first.
	OrderNewVarPairsDown

	// OrderActiveOpsUp ranks by the number of operators with an effect
	// inside the pattern, smallest first.
	OrderActiveOpsUp

	// OrderActiveOpsDown ranks like OrderActiveOpsUp, largest first.
	OrderActiveOpsDown

	// OrderAltTwo flips a coin on every restart between OrderCGMinDown
	// and OrderActiveOpsUp.
	OrderAltTwo

	// OrderActiveOpsUpCGMinDown ranks lexicographically by (active
	// operators ascending, minimum variable id descending).
	OrderActiveOpsUpCGMinDown

	// OrderCGMinDownActiveOpsUp ranks lexicographically by (minimum
	// variable id descending, active operators ascending).
	OrderCGMinDownActiveOpsUp
)

// DeadEndTreatment selects how the evaluator exploits infinite-distance
// abstract states.
type DeadEndTreatment int

const (
	// DeadEndsIgnore considers only positive finite distances.
	DeadEndsIgnore DeadEndTreatment = iota

	// DeadEndsAll also deems a pattern useful when it has an infinite
	// distance next to at least one finite one.
	DeadEndsAll

	// DeadEndsNew harvests newly discovered infinite-distance abstract
	// states as partial-state dead ends, accumulated across patterns.
	DeadEndsNew

	// DeadEndsNewForCurrentOrder behaves like DeadEndsNew but resets the
	// collection on every restart.
	DeadEndsNewForCurrentOrder
)

// Options configures Generate.
//
// The budgets mirror the knobs of the pattern-search loop: per-pattern
// and per-collection size caps, pattern count, overall and per-restart
// wall-clock limits. Zero values are not usable; start from
// DefaultOptions and override.
type Options struct {
	// MaxPatternSize caps the number of variables per pattern. Clamped
	// to the number of task variables.
	MaxPatternSize int

	// MaxPDBSize caps the number of abstract states of one projection.
	MaxPDBSize int

	// MaxCollectionSize caps the summed abstract state count across all
	// selected projections.
	MaxCollectionSize int64

	// MaxPatterns caps the number of selected projections.
	MaxPatterns int

	// MaxTime bounds the whole pattern search.
	MaxTime time.Duration

	// MaxTimePerRestart bounds a single restart of the generator.
	MaxTimePerRestart time.Duration

	// Saturate subtracts each selected projection's saturated costs from
	// the remaining cost vector before judging later candidates.
	Saturate bool

	// OnlySGAPatterns restricts candidates to subsets of a single goal
	// variable's causal ancestors.
	OnlySGAPatterns bool

	// IgnoreUselessPatterns drops patterns affected only by free
	// operators (remaining cost 0 or Infinity) without evaluating them.
	IgnoreUselessPatterns bool

	// StoreOrders records, per restart, the positions of the projections
	// it added; the online heuristic can replay these as orders.
	StoreOrders bool

	// DeadEnds selects the evaluator's dead-end treatment.
	DeadEnds DeadEndTreatment

	// Order ranks patterns of equal size.
	Order Order

	// Seed feeds the generator's random source (OrderRandom and
	// OrderAltTwo). Fixed seed, reproducible run.
	Seed int64

	// Logger receives progress and statistics lines. nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nothing is overridden:
// no size limits, 100s overall and 10s per restart, saturation on,
// dead-end harvesting on (DeadEndsNew), enumeration order.
func DefaultOptions() Options {
	return Options{
		MaxPatternSize:    task.Infinity,
		MaxPDBSize:        task.Infinity,
		MaxCollectionSize: task.Infinity,
		MaxPatterns:       task.Infinity,
		MaxTime:           100 * time.Second,
		MaxTimePerRestart: 10 * time.Second,
		Saturate:          true,
		OnlySGAPatterns:   false,
		StoreOrders:       true,
		DeadEnds:          DeadEndsNew,
		Order:             OrderOriginal,
		Seed:              2011,
	}
}

// validate reports the first option violation.
func (o *Options) validate() error {
	if o.MaxPatternSize < 1 {
		return ErrBadPatternSize
	}
	if o.MaxPDBSize < 1 {
		return ErrBadPDBSize
	}
	if o.MaxCollectionSize < 1 {
		return ErrBadCollectionSize
	}
	if o.MaxPatterns < 1 {
		return ErrBadMaxPatterns
	}
	if o.MaxTime <= 0 || o.MaxTimePerRestart <= 0 {
		return ErrBadTime
	}
	if o.Order < OrderOriginal || o.Order > OrderCGMinDownActiveOpsUp {
		return ErrBadOrder
	}
	if o.DeadEnds < DeadEndsIgnore || o.DeadEnds > DeadEndsNewForCurrentOrder {
		return ErrBadDeadEnds
	}

	return nil
}
