package scene

import (
	"math/rand/v2"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Scene is the minimal concrete Scene the CORE programs against: a flat,
// fixed list of shapes intersected by a linear scan. A linear scan is
// acceptable here since this scene never holds more than a few dozen
// primitives — full BVH acceleration belongs to an external collaborator
// outside this module's scope.
type Scene struct {
	shapes   []shape
	emitters []material.Emitter
	bounds   pmmath.AABB
	sky      pmmath.Vec3
}

// New builds a Scene from the given shapes. Any quad whose material emits
// light is collected automatically as an emitter.
func New(bounds pmmath.AABB, sky pmmath.Vec3, shapes ...shape) *Scene {
	s := &Scene{shapes: shapes, bounds: bounds, sky: sky}
	for _, sh := range shapes {
		if q, ok := sh.(*Quad); ok && !q.Mat.Emittance().IsZero() {
			s.emitters = append(s.emitters, emitterQuad{q})
		}
	}
	return s
}

// BoundingBox returns the scene's fixed world bounding box; the photon
// maps' shared octree bounds are derived from this.
func (s *Scene) BoundingBox() pmmath.AABB { return s.bounds }

// Emitters returns the scene's area lights.
func (s *Scene) Emitters() []material.Emitter { return s.emitters }

// SkyRadiance returns the background radiance for a ray that escapes the
// scene without hitting anything.
func (s *Scene) SkyRadiance(ray pmmath.Ray) pmmath.Vec3 { return s.sky }

// Intersect finds the closest shape hit along the ray and builds an
// Interaction for it. rng supplies the uniform samples a rough-specular
// material's microfacet-normal sampling needs; callers pass a
// goroutine-local source so concurrent intersection never shares mutable
// RNG state, keeping Intersect safe to call from every photon-tracing and
// radiance-estimation worker at once.
func (s *Scene) Intersect(ray pmmath.Ray, rng *rand.Rand) (*material.Interaction, bool) {
	const tMin = 1e-6
	tMax := 1e30

	var closest shape
	var closestT float64
	var closestN pmmath.Vec3
	found := false

	for _, sh := range s.shapes {
		if t, n, ok := sh.hit(ray, tMin, tMax); ok {
			closest, closestT, closestN = sh, t, n
			found = true
			tMax = t
		}
	}
	if !found {
		return nil, false
	}

	u1, u2 := rng.Float64(), rng.Float64()
	in := material.NewInteraction(ray, closestT, closestN, pmmath.Vec3{}, closest.Material(), u1, u2)
	return in, true
}
