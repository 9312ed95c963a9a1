// Package scp: option surface, enumerations, and sentinel errors for
// cost partitioning and the online heuristic.
package scp

import (
	"errors"
	"log/slog"
	"time"
)

// Sentinel errors.
var (
	// ErrDeadEnd marks a state from which no goal is reachable. It is a
	// result, not a failure: search drivers prune the state.
	ErrDeadEnd = errors.New("scp: state is a dead end")

	// ErrNoAbstractions indicates an empty abstraction list.
	ErrNoAbstractions = errors.New("scp: at least one abstraction is required")

	// ErrNoOrderGenerator indicates that no order generator was set.
	ErrNoOrderGenerator = errors.New("scp: order generator is required")

	// ErrBadInterval indicates an SCP trigger outside {≥1, -1, -2}.
	ErrBadInterval = errors.New("scp: interval must be at least 1, or -1/-2 for novelty triggers")

	// ErrBadBudget indicates a non-positive improvement budget.
	ErrBadBudget = errors.New("scp: improvement budgets must be positive")
)

// Saturator selects how much cost a computed partition subtracts per
// abstraction.
type Saturator int

const (
	// SaturatorOneShot performs a single full saturation per order.
	SaturatorOneShot Saturator = iota

	// SaturatorPerimstar first saturates only up to the evaluated
	// state's distance per abstraction, and adds a full saturation pass
	// on the leftover costs when the cheap phase beats the running
	// maximum.
	SaturatorPerimstar
)

// SCP trigger intervals with special meaning. Any value ≥ 1 recomputes
// every interval-th evaluated state.
const (
	// IntervalNovelFacts recomputes only for states containing a fact
	// never seen in any previously evaluated state.
	IntervalNovelFacts = -1

	// IntervalNovelFactPairs recomputes only for states containing an
	// unordered fact pair never seen before.
	IntervalNovelFactPairs = -2
)

// OnlineOptions configures NewOnline. Zero values are not usable; start
// from DefaultOnlineOptions and override.
type OnlineOptions struct {
	// Orders supplies the abstraction order per computed partition.
	Orders OrderGenerator

	// Saturator picks the saturation scheme.
	Saturator Saturator

	// Interval is the SCP trigger: ≥ 1 for every interval-th state,
	// IntervalNovelFacts or IntervalNovelFactPairs for novelty triggers.
	Interval int

	// UseEvaluatedStateAsSample stores a fresh partition when it
	// improves the maximum at the evaluated state. When false, computed
	// partitions only raise the value returned for the current query and
	// are never stored.
	UseEvaluatedStateAsSample bool

	// MaxTime bounds the improvement phase (time actually spent inside
	// this heuristic, not search wall clock).
	MaxTime time.Duration

	// MaxSizeKB bounds the estimated size of the stored partitions.
	MaxSizeKB int

	// Logger receives progress and statistics lines. nil discards.
	Logger *slog.Logger
}

// DefaultOnlineOptions returns the options used when nothing is
// overridden: greedy orders, one-shot saturation, a partition for every
// evaluated state, 100s and 1 GiB of improvement budget.
func DefaultOnlineOptions() OnlineOptions {
	return OnlineOptions{
		Orders:    NewGreedyOrders(),
		Saturator: SaturatorOneShot,
		Interval:  1,
		MaxTime:   100 * time.Second,
		MaxSizeKB: 1 << 20,
	}
}

// validate reports the first option violation.
func (o *OnlineOptions) validate() error {
	if o.Orders == nil {
		return ErrNoOrderGenerator
	}
	if o.Interval < 1 && o.Interval != IntervalNovelFacts && o.Interval != IntervalNovelFactPairs {
		return ErrBadInterval
	}
	if o.MaxTime <= 0 || o.MaxSizeKB <= 0 {
		return ErrBadBudget
	}

	return nil
}
