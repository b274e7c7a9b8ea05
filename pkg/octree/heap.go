package octree

import "container/heap"

// knnHeap is a bounded max-heap of size <= k, keyed on squared distance.
// The root is always the current worst (farthest) kept candidate, so a new,
// closer candidate can displace it in O(log k) once the heap is full.
type knnHeap[T Point] struct {
	k     int
	items knnItems[T]
}

type knnItem[T Point] struct {
	point Hit[T]
}

type knnItems[T Point] []knnItem[T]

func (h knnItems[T]) Len() int { return len(h) }
func (h knnItems[T]) Less(i, j int) bool {
	return h[i].point.DistanceSq > h[j].point.DistanceSq // max-heap
}
func (h knnItems[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *knnItems[T]) Push(x any)   { *h = append(*h, x.(knnItem[T])) }
func (h *knnItems[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newKNNHeap[T Point](k int) *knnHeap[T] {
	if k < 1 {
		k = 1
	}
	return &knnHeap[T]{k: k, items: make(knnItems[T], 0, k)}
}

// worstAllowed returns the squared radius within which a new candidate could
// still possibly be kept: rMaxSq until the heap fills to k, after which it
// tightens to the current worst kept distance.
func (h *knnHeap[T]) worstAllowed(rMaxSq float64) float64 {
	if len(h.items) < h.k {
		return rMaxSq
	}
	return h.items[0].point.DistanceSq
}

// push adds a candidate, evicting the current worst if the heap is already at capacity.
func (h *knnHeap[T]) push(p T, distSq float64) {
	item := knnItem[T]{point: Hit[T]{Point: p, DistanceSq: distSq}}
	if len(h.items) < h.k {
		heap.Push(&h.items, item)
		return
	}
	if distSq < h.items[0].point.DistanceSq {
		heap.Pop(&h.items)
		heap.Push(&h.items, item)
	}
}

// sorted drains the heap into a slice ascending by squared distance.
func (h *knnHeap[T]) sorted() []Hit[T] {
	n := len(h.items)
	out := make([]Hit[T], n)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h.items).(knnItem[T]).point
	}
	return out
}
