// Package pqueue provides the adaptive min-priority queue shared by the
// distance computations in this module.
//
// Every Dijkstra pass in the engine (projection distance tables,
// pattern evaluation) pushes (distance, abstract-state) pairs with small
// non-negative integer keys. AdaptiveQueue exploits that: it starts as
// a bucket queue (O(1) push, pops scan forward over buckets) and falls
// back permanently to a binary heap when the observed key range grows
// out of proportion to the number of pushes, so sparse or large keys do
// not degenerate into a long empty-bucket scan.
//
// The queue is deliberately reusable: Clear retains all allocated
// capacity, so one queue instance can serve thousands of evaluations
// without allocation churn. Ownership stays with the enclosing
// component; the queue itself is not safe for concurrent use.
//
// Determinism:
//
//   - bucket mode pops FIFO within a bucket (insertion order);
//   - heap mode orders by (key, value), so equal keys settle in
//     ascending value order.
//
// Combined with pushes issued in ascending state order, this makes
// every Dijkstra settle order reproducible.
//
// Complexity:
//
//   - Push: O(1) amortized in bucket mode, O(log n) in heap mode.
//   - Pop:  amortized O(1 + key drift) in bucket mode, O(log n) in heap mode.
package pqueue
