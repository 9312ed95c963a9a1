// Package costsat is an in-memory cost-partitioning heuristic engine
// for grounded classical-planning tasks: pattern databases, saturated
// cost functions, and online saturated cost partitioning.
//
// 🚀 What is costsat?
//
//	A deterministic, single-threaded library that brings together:
//		• Task model: finite-domain variables, operators, goals, causal graph
//		• Projections: perfect-hash pattern databases with regression match trees
//		• Saturation: minimum per-operator costs preserving all goal distances
//		• Pattern search: systematic enumeration with filtering and budgets
//		• Cost partitioning: per-order saturated partitions, maximised over orders
//		• Online driver: novelty-triggered improvement during search
//
// ✨ Why choose costsat?
//
//   - Admissible by construction – every estimate is a lower bound
//   - Deterministic – seeded shuffles, stable tie-breaking, reproducible runs
//   - Pure Go – no cgo, no hidden deps
//   - Allocation-aware – shared queues and lookup tables are reused, not rebuilt
//
// Under the hood, everything is organized under five subpackages:
//
//	task/       — read-only task façade: variables, operators, goal, causal graph
//	pqueue/     — adaptive bucket/heap priority queue shared by all searches
//	projection/ — pattern databases: abstract operators, distances, saturation
//	pattern/    — systematic pattern generation, evaluation and selection
//	scp/        — orders, cost-partitioning heuristics, the online driver
//
// Typical build-then-query flow:
//
//	t, _ := task.New(domains, operators, initial, goal)
//	coll, _ := pattern.Generate(t, pattern.DefaultOptions())
//	online, _ := scp.NewOnline(t, coll.Abstractions(), scp.DefaultOnlineOptions())
//	online.NotifyInitialState(t.Initial())
//	h, err := online.Compute(state) // errors.Is(err, scp.ErrDeadEnd) on dead ends
package costsat
