package octree

import "github.com/arcbeam/photonmap/pkg/pmmath"

// linearNode is one packed node entry: its cube, the range of its data in
// the shared payload array (leaves only), and its eight children (internal
// nodes only; sentinelChild for an absent slot). Indices replace pointers so
// traversal never chases a heap pointer, matching the pointer-chasing-free
// design goal the octree's packed form exists for.
type linearNode struct {
	bounds    pmmath.AABB
	dataStart int32
	dataCount int32
	children  [8]int32
}

const sentinelChild = -1

func (n linearNode) isLeaf() bool {
	return n.children[0] == sentinelChild
}

// LinearOctree is the frozen, read-only form of an Octree produced once
// aggregation finishes. It has no insertion method: the type itself
// enforces the Pass-1 (mutable) -> Pass-2 (shared immutable) transition the
// spec requires, since there is no way to get a LinearOctree except by
// Freezing a fully-populated Octree, and nothing on LinearOctree can mutate it.
type LinearOctree[T Point] struct {
	bounds  pmmath.AABB
	root    int32
	nodes   []linearNode
	payload []T
}

// Freeze performs the depth-first walk that packs the octree into node and
// payload arrays. Children are appended to the node array before their
// parent (post-order), so a subtree is always a contiguous run that
// completed before its parent's entry is written; the parent records each
// child's start index directly rather than relying on sibling subtrees being
// back-to-back, which post-order recursion does not guarantee once a child
// itself subdivides.
func (o *Octree[T]) Freeze() *LinearOctree[T] {
	lo := &LinearOctree[T]{bounds: o.bounds}
	lo.root = packNode(o.root, lo)
	return lo
}

func packNode[T Point](n *node[T], lo *LinearOctree[T]) int32 {
	ln := linearNode{bounds: n.bounds}
	if n.isLeaf() {
		ln.dataStart = int32(len(lo.payload))
		ln.dataCount = int32(len(n.points))
		lo.payload = append(lo.payload, n.points...)
		ln.children = [8]int32{sentinelChild, sentinelChild, sentinelChild, sentinelChild, sentinelChild, sentinelChild, sentinelChild, sentinelChild}
	} else {
		for i := 0; i < 8; i++ {
			ln.children[i] = packNode(n.children[i], lo)
		}
	}
	lo.nodes = append(lo.nodes, ln)
	return int32(len(lo.nodes) - 1)
}

// Bounds returns the root bounding box.
func (lo *LinearOctree[T]) Bounds() pmmath.AABB {
	return lo.bounds
}

// Len returns the number of stored points.
func (lo *LinearOctree[T]) Len() int {
	return len(lo.payload)
}

// KNN returns up to k points nearest to q, each within rMax, ascending by
// squared distance — identical semantics to Octree.KNN.
func (lo *LinearOctree[T]) KNN(q pmmath.Vec3, k int, rMax float64) []Hit[T] {
	h := newKNNHeap[T](k)
	rMaxSq := rMax * rMax
	lo.knnVisit(lo.root, q, rMaxSq, h)
	return h.sorted()
}

func (lo *LinearOctree[T]) knnVisit(idx int32, q pmmath.Vec3, rMaxSq float64, h *knnHeap[T]) {
	n := lo.nodes[idx]
	if n.bounds.DistanceSquared(q) > h.worstAllowed(rMaxSq) {
		return
	}
	if n.isLeaf() {
		for i := n.dataStart; i < n.dataStart+n.dataCount; i++ {
			p := lo.payload[i]
			d2 := p.Position().Subtract(q).LengthSquared()
			if d2 <= rMaxSq {
				h.push(p, d2)
			}
		}
		return
	}
	order := lo.childVisitOrder(n, q)
	for _, child := range order {
		lo.knnVisit(child, q, rMaxSq, h)
	}
}

func (lo *LinearOctree[T]) childVisitOrder(n linearNode, q pmmath.Vec3) [8]int32 {
	order := n.children
	var dist [8]float64
	for i, idx := range order {
		dist[i] = lo.nodes[idx].bounds.DistanceSquared(q)
	}
	for i := 1; i < 8; i++ {
		j := i
		for j > 0 && dist[j-1] > dist[j] {
			dist[j-1], dist[j] = dist[j], dist[j-1]
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	return order
}

// RadiusEmpty returns true iff no stored point lies within r of q.
func (lo *LinearOctree[T]) RadiusEmpty(q pmmath.Vec3, r float64) bool {
	return lo.radiusEmptyVisit(lo.root, q, r*r)
}

func (lo *LinearOctree[T]) radiusEmptyVisit(idx int32, q pmmath.Vec3, rSq float64) bool {
	n := lo.nodes[idx]
	if n.bounds.DistanceSquared(q) > rSq {
		return true
	}
	if n.isLeaf() {
		for i := n.dataStart; i < n.dataStart+n.dataCount; i++ {
			if lo.payload[i].Position().Subtract(q).LengthSquared() <= rSq {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if !lo.radiusEmptyVisit(child, q, rSq) {
			return false
		}
	}
	return true
}
