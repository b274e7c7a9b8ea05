package pmmath

import "math"

// AABB is an axis-aligned bounding box, used both for scene bounds and for
// octree node cubes.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from min/max corners.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates the smallest AABB bounding all given points.
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return AABB{Min: min, Max: max}
}

// Union returns an AABB bounding both this box and another.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, other.Min.X), math.Min(b.Min.Y, other.Min.Y), math.Min(b.Min.Z, other.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, other.Max.X), math.Max(b.Max.Y, other.Max.Y), math.Max(b.Max.Z, other.Max.Z)},
	}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Subtract(b.Min)
}

// Contains returns true if p lies inside the box (inclusive of the boundary).
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// DistanceSquared returns the squared distance from p to the nearest point of
// the box (zero if p is inside). Used to prune octree traversal: a node whose
// box distance exceeds the current search radius cannot contain a closer hit.
func (b AABB) DistanceSquared(p Vec3) float64 {
	dx := math.Max(0, math.Max(b.Min.X-p.X, p.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y))
	dz := math.Max(0, math.Max(b.Min.Z-p.Z, p.Z-b.Max.Z))
	return dx*dx + dy*dy + dz*dz
}

// Octant returns which of the eight child octants (0-7, bit 0=X, bit 1=Y,
// bit 2=Z) a point belongs to relative to this box's center. Points exactly
// on the center plane are assigned to the ">=" side, matching the octree's
// deterministic tie-break rule.
func (b AABB) Octant(p Vec3) int {
	c := b.Center()
	octant := 0
	if p.X >= c.X {
		octant |= 1
	}
	if p.Y >= c.Y {
		octant |= 2
	}
	if p.Z >= c.Z {
		octant |= 4
	}
	return octant
}

// ChildBounds returns the bounding box of the given octant (0-7) of this box.
func (b AABB) ChildBounds(octant int) AABB {
	c := b.Center()
	min, max := b.Min, c
	if octant&1 != 0 {
		min.X, max.X = c.X, b.Max.X
	}
	if octant&2 != 0 {
		min.Y, max.Y = c.Y, b.Max.Y
	}
	if octant&4 != 0 {
		min.Z, max.Z = c.Z, b.Max.Z
	}
	return AABB{Min: min, Max: max}
}

// Expand returns a box grown by amount in every direction.
func (b AABB) Expand(amount float64) AABB {
	e := NewVec3(amount, amount, amount)
	return AABB{Min: b.Min.Subtract(e), Max: b.Max.Add(e)}
}
