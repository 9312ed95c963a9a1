package pqueue

import "container/heap"

// minBucketRange is the key range below which bucket mode is always
// kept, regardless of how few pushes were seen.
const minBucketRange = 128

// AdaptiveQueue is a reusable min-priority queue over (key, value) int
// pairs. It starts in bucket mode and switches permanently to a binary
// heap once the key range exceeds both minBucketRange and twice the
// number of pushes seen so far.
//
// The zero value is ready to use.
type AdaptiveQueue struct {
	buckets   [][]int // buckets[key] = values in insertion order
	scanFrom  int     // smallest bucket that may be non-empty
	useHeap   bool
	heap      entryHeap
	size      int
	numPushes int
}

// Len returns the number of queued entries.
func (q *AdaptiveQueue) Len() int { return q.size }

// Push inserts value with the given non-negative key.
func (q *AdaptiveQueue) Push(key, value int) {
	if key < 0 {
		panic("pqueue: negative key")
	}
	q.numPushes++
	q.size++

	if q.useHeap {
		heap.Push(&q.heap, entry{key, value})

		return
	}

	if key >= len(q.buckets) {
		if key > minBucketRange && key > 2*q.numPushes {
			// Key range out of proportion to the workload: migrate the
			// queued entries and stay in heap mode from now on.
			q.convertToHeap()
			heap.Push(&q.heap, entry{key, value})

			return
		}
		q.grow(key + 1)
	}
	q.buckets[key] = append(q.buckets[key], value)
	if key < q.scanFrom {
		q.scanFrom = key
	}
}

// Pop removes and returns the entry with the smallest key. Ties resolve
// FIFO in bucket mode and by ascending value in heap mode. ok is false
// when the queue is empty.
func (q *AdaptiveQueue) Pop() (key, value int, ok bool) {
	if q.size == 0 {
		return 0, 0, false
	}
	q.size--

	if q.useHeap {
		e := heap.Pop(&q.heap).(entry)

		return e.key, e.value, true
	}

	for q.scanFrom < len(q.buckets) && len(q.buckets[q.scanFrom]) == 0 {
		q.scanFrom++
	}
	bucket := q.buckets[q.scanFrom]
	value = bucket[0]
	q.buckets[q.scanFrom] = bucket[1:]

	return q.scanFrom, value, true
}

// Clear empties the queue while retaining allocated capacity, so the
// next use starts allocation-free. The bucket/heap mode choice is kept.
func (q *AdaptiveQueue) Clear() {
	for i := range q.buckets {
		// Reset length, keep backing arrays.
		q.buckets[i] = q.buckets[i][:0]
	}
	q.heap = q.heap[:0]
	q.scanFrom = 0
	q.size = 0
	q.numPushes = 0
}

// grow extends the bucket array to hold keys below want.
func (q *AdaptiveQueue) grow(want int) {
	for len(q.buckets) < want {
		q.buckets = append(q.buckets, nil)
	}
}

// convertToHeap migrates all bucketed entries into the heap. Bucket
// storage is dropped for good; a queue that outgrew buckets once will
// do so again.
func (q *AdaptiveQueue) convertToHeap() {
	q.heap = make(entryHeap, 0, q.size)
	for key := q.scanFrom; key < len(q.buckets); key++ {
		for _, value := range q.buckets[key] {
			q.heap = append(q.heap, entry{key, value})
		}
	}
	heap.Init(&q.heap)
	q.buckets = nil
	q.scanFrom = 0
	q.useHeap = true
}

// entry is a queued (key, value) pair.
type entry struct {
	key   int
	value int
}

// entryHeap is a min-heap of entries ordered by (key, value).
type entryHeap []entry

// Len returns the number of items in the heap.
func (h entryHeap) Len() int { return len(h) }

// Less orders by key, then value, so equal keys pop deterministically.
func (h entryHeap) Less(i, j int) bool {
	return h[i].key < h[j].key || (h[i].key == h[j].key && h[i].value < h[j].value)
}

// Swap swaps two elements in the heap.
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push adds a new element onto the heap. Called by heap.Push.
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }

// Pop removes and returns the last element. Called by heap.Pop.
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
