package radiance

import (
	"math/rand/v2"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Scene is the subset of the scene contract (spec 4.H/6) Pass 2 needs:
// everything pkg/photon's Scene needs, plus the background radiance a
// camera ray receives on a miss. Defined here rather than imported from
// pkg/scene, matching pkg/photon's consumer-defined-interface approach;
// *scene.Scene satisfies both structurally.
type Scene interface {
	Intersect(ray pmmath.Ray, rng *rand.Rand) (*material.Interaction, bool)
	BoundingBox() pmmath.AABB
	Emitters() []material.Emitter
	SkyRadiance(ray pmmath.Ray) pmmath.Vec3
}
