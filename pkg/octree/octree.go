// Package octree implements the bounded spatial index the photon maps are
// built on: a point octree for insertion during Pass 1, and a read-only
// LinearOctree packed-array form for the concurrent k-NN queries of Pass 2.
//
// The subdivision and traversal rules mirror the BVH/AABB idiom of the
// raytracer's core package (slab tests, octant bisection at the node
// center) generalized from a bounding-volume hierarchy over shapes to a
// point index over stored photons.
package octree

import (
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Point is anything that can be stored in the octree: it must report the
// world-space position it was inserted at.
type Point interface {
	Position() pmmath.Vec3
}

// Octree is the mutable, single-threaded point index built during photon
// aggregation. Once built, call Freeze to obtain the immutable LinearOctree
// used during the concurrent estimation pass; Octree itself has no query
// methods of its own mutation-era form other than the ones used by tests to
// cross-check LinearOctree's answers (KNN, RadiusEmpty below satisfy that).
type Octree[T Point] struct {
	bounds       pmmath.AABB
	maxLeafSize  int
	root         *node[T]
	count        int
}

type node[T Point] struct {
	bounds   pmmath.AABB
	points   []T       // non-nil only on leaves
	children [8]*node[T] // non-nil only on internal nodes
}

func (n *node[T]) isLeaf() bool {
	return n.children[0] == nil
}

// New creates an empty octree over the given bounds. maxLeafSize is the
// `max_node_data`/`max_photons_per_octree_leaf` capacity of a leaf before it
// subdivides.
func New[T Point](bounds pmmath.AABB, maxLeafSize int) *Octree[T] {
	if maxLeafSize < 1 {
		maxLeafSize = 1
	}
	return &Octree[T]{
		bounds:      bounds,
		maxLeafSize: maxLeafSize,
		root:        &node[T]{bounds: bounds, points: make([]T, 0, maxLeafSize)},
	}
}

// Bounds returns the octree's root bounding box.
func (o *Octree[T]) Bounds() pmmath.AABB {
	return o.bounds
}

// Len returns the number of points inserted so far.
func (o *Octree[T]) Len() int {
	return o.count
}

// Insert adds a point to the octree, descending to (and, if necessary,
// subdividing) the leaf whose cube contains the point's position. Points
// exactly on a node's center plane are assigned to the ">=" child on that
// axis, the same rule AABB.Octant uses everywhere else, so insertion order
// is the only source of structural variation and repeating an identical
// insertion sequence always reproduces an identical tree.
func (o *Octree[T]) Insert(p T) {
	o.count++
	insertInto(o.root, p, o.maxLeafSize)
}

func insertInto[T Point](n *node[T], p T, maxLeafSize int) {
	for {
		if n.isLeaf() {
			if len(n.points) < maxLeafSize {
				n.points = append(n.points, p)
				return
			}
			subdivide(n, maxLeafSize)
		}
		octant := n.bounds.Octant(p.Position())
		n = n.children[octant]
	}
}

// subdivide turns a full leaf into an internal node with eight empty
// children, redistributing the leaf's existing points into them.
func subdivide[T Point](n *node[T], maxLeafSize int) {
	existing := n.points
	n.points = nil
	for i := 0; i < 8; i++ {
		n.children[i] = &node[T]{
			bounds: n.bounds.ChildBounds(i),
			points: make([]T, 0, maxLeafSize),
		}
	}
	for _, p := range existing {
		octant := n.bounds.Octant(p.Position())
		child := n.children[octant]
		// A freshly-subdivided child is always a leaf with room, since
		// existing holds at most maxLeafSize points split across 8 octants.
		child.points = append(child.points, p)
	}
}

// KNN returns up to k points nearest to q, each within rMax, sorted by
// ascending squared distance. It exists on the mutable Octree so property
// tests can cross-check it against brute force and against LinearOctree's
// answer for the identical query.
func (o *Octree[T]) KNN(q pmmath.Vec3, k int, rMax float64) []Hit[T] {
	h := newKNNHeap[T](k)
	rMaxSq := rMax * rMax
	knnVisit(o.root, q, rMaxSq, h)
	return h.sorted()
}

func knnVisit[T Point](n *node[T], q pmmath.Vec3, rMaxSq float64, h *knnHeap[T]) {
	if n.bounds.DistanceSquared(q) > h.worstAllowed(rMaxSq) {
		return
	}
	if n.isLeaf() {
		for _, p := range n.points {
			d2 := p.Position().Subtract(q).LengthSquared()
			if d2 <= rMaxSq {
				h.push(p, d2)
			}
		}
		return
	}
	order := childVisitOrder(n, q)
	for _, idx := range order {
		knnVisit(n.children[idx], q, rMaxSq, h)
	}
}

// childVisitOrder returns child indices sorted by ascending squared distance
// of the child's box to q, so the nearer subtrees are explored (and prune
// the radius) before the farther ones.
func childVisitOrder[T Point](n *node[T], q pmmath.Vec3) [8]int {
	var order [8]int
	var dist [8]float64
	for i := 0; i < 8; i++ {
		order[i] = i
		dist[i] = n.children[i].bounds.DistanceSquared(q)
	}
	// insertion sort: 8 elements, not worth pulling in sort.Slice
	for i := 1; i < 8; i++ {
		j := i
		for j > 0 && dist[order[j-1]] > dist[order[j]] {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	return order
}

// RadiusEmpty returns true iff no stored point lies within r of q.
func (o *Octree[T]) RadiusEmpty(q pmmath.Vec3, r float64) bool {
	return radiusEmptyVisit(o.root, q, r*r)
}

func radiusEmptyVisit[T Point](n *node[T], q pmmath.Vec3, rSq float64) bool {
	if n.bounds.DistanceSquared(q) > rSq {
		return true
	}
	if n.isLeaf() {
		for _, p := range n.points {
			if p.Position().Subtract(q).LengthSquared() <= rSq {
				return false
			}
		}
		return true
	}
	for i := 0; i < 8; i++ {
		if !radiusEmptyVisit(n.children[i], q, rSq) {
			return false
		}
	}
	return true
}

// Hit is one result of a k-NN query: the stored point and its squared
// distance to the query position.
type Hit[T Point] struct {
	Point      T
	DistanceSq float64
}
