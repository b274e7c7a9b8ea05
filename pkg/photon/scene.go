package photon

import (
	"math/rand/v2"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Scene is the subset of the scene/surface/material contract (spec
// 4.H/6) the photon tracer needs: thread-safe intersection and the
// emitters to shoot particles from. Defined here, by the consumer,
// rather than imported from pkg/scene, so the tracer only depends on
// the shape it actually calls; *scene.Scene satisfies it structurally.
type Scene interface {
	Intersect(ray pmmath.Ray, rng *rand.Rand) (*material.Interaction, bool)
	BoundingBox() pmmath.AABB
	Emitters() []material.Emitter
}
