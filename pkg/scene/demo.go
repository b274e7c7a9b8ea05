package scene

import (
	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// The demo scenes below back the `photonmap demo` CLI subcommands and the
// end-to-end scenario tests: a Cornell-box room of five walls plus a
// ceiling light, optionally with an extra occluder, mirror wall, or glass
// sphere dropped in.

const (
	roomSize  = 10.0
	wallWhite = 0.73
	wallRed   = 0.65
	wallGreen = 0.12
)

func cornellWalls() []shape {
	white := material.NewLambertian(pmmath.NewVec3(wallWhite, wallWhite, wallWhite))
	red := material.NewLambertian(pmmath.NewVec3(wallRed, 0.05, 0.05))
	green := material.NewLambertian(pmmath.NewVec3(0.12, wallGreen+0.3, 0.15))

	return []shape{
		// floor
		NewQuad(pmmath.NewVec3(0, 0, 0), pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, 0, roomSize), white),
		// ceiling
		NewQuad(pmmath.NewVec3(0, roomSize, 0), pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, 0, roomSize), white),
		// back wall
		NewQuad(pmmath.NewVec3(0, 0, roomSize), pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, roomSize, 0), white),
		// left wall (red)
		NewQuad(pmmath.NewVec3(0, 0, 0), pmmath.NewVec3(0, 0, roomSize), pmmath.NewVec3(0, roomSize, 0), red),
		// right wall (green)
		NewQuad(pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, 0, roomSize), pmmath.NewVec3(0, roomSize, 0), green),
	}
}

func cornellLight() *Quad {
	light := material.NewEmissive(pmmath.NewVec3(15, 15, 15))
	const inset = 3.0
	return NewQuad(
		pmmath.NewVec3(inset, roomSize-0.01, inset),
		pmmath.NewVec3(roomSize-2*inset, 0, 0),
		pmmath.NewVec3(0, 0, roomSize-2*inset),
		light,
	)
}

func sceneBounds() pmmath.AABB {
	return pmmath.NewAABB(pmmath.NewVec3(-0.5, -0.5, -0.5), pmmath.NewVec3(roomSize+0.5, roomSize+0.5, roomSize+0.5))
}

// DefaultCamera returns the standard view onto any of the demo scenes
// above: positioned outside the room's open face (low Z) looking in at
// the back wall and ceiling light.
func DefaultCamera(aspectRatio float64) *Camera {
	half := roomSize / 2
	lookFrom := pmmath.NewVec3(half, half, -1.8*roomSize)
	lookAt := pmmath.NewVec3(half, half, 0)
	return NewCameraLookAt(lookFrom, lookAt, pmmath.NewVec3(0, 1, 0), 40, aspectRatio)
}

// NewCornellBox builds the baseline Cornell-box room: five diffuse walls
// and a ceiling area light, no occluders. Exercises direct and indirect
// photon storage and the diffuse radiance estimate.
func NewCornellBox() *Scene {
	shapes := cornellWalls()
	shapes = append(shapes, cornellLight())
	return New(sceneBounds(), pmmath.Vec3{}, shapes...)
}

// NewCausticScene adds a glass sphere in the middle of the Cornell box,
// large enough to focus a visible caustic on the floor beneath the
// ceiling light.
func NewCausticScene() *Scene {
	shapes := cornellWalls()
	shapes = append(shapes, cornellLight())
	glass := material.NewDielectric(1.5)
	shapes = append(shapes, NewSphere(pmmath.NewVec3(roomSize/2, 2.2, roomSize/2), 2.2, glass))
	return New(sceneBounds(), pmmath.Vec3{}, shapes...)
}

// NewOccluderScene adds an opaque block between the light and part of the
// floor, so shadow photons mark the occluded region distinctly from the
// photon-starved far wall.
func NewOccluderScene() *Scene {
	shapes := cornellWalls()
	shapes = append(shapes, cornellLight())
	occluder := material.NewLambertian(pmmath.NewVec3(0.4, 0.4, 0.4))
	const blockSize = 2.5
	base := pmmath.NewVec3(3, 0, 3)
	shapes = append(shapes,
		NewQuad(base, pmmath.NewVec3(blockSize, 0, 0), pmmath.NewVec3(0, blockSize, 0), occluder),
		NewQuad(base.Add(pmmath.NewVec3(0, 0, blockSize)), pmmath.NewVec3(blockSize, 0, 0), pmmath.NewVec3(0, blockSize, 0), occluder),
		NewQuad(base, pmmath.NewVec3(0, blockSize, 0), pmmath.NewVec3(0, 0, blockSize), occluder),
		NewQuad(base.Add(pmmath.NewVec3(0, blockSize, 0)), pmmath.NewVec3(blockSize, 0, 0), pmmath.NewVec3(0, 0, blockSize), occluder),
	)
	return New(sceneBounds(), pmmath.Vec3{}, shapes...)
}

// NewMirrorScene replaces the back wall with a perfect mirror, exercising
// the specular-path-prefix classification that routes photons into the
// caustic map only (never indirect) after a mirror bounce.
func NewMirrorScene() *Scene {
	white := material.NewLambertian(pmmath.NewVec3(wallWhite, wallWhite, wallWhite))
	red := material.NewLambertian(pmmath.NewVec3(wallRed, 0.05, 0.05))
	green := material.NewLambertian(pmmath.NewVec3(0.12, wallGreen+0.3, 0.15))
	mirror := material.NewMetal(pmmath.NewVec3(0.95, 0.95, 0.95), 0)

	shapes := []shape{
		NewQuad(pmmath.NewVec3(0, 0, 0), pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, 0, roomSize), white),
		NewQuad(pmmath.NewVec3(0, roomSize, 0), pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, 0, roomSize), white),
		NewQuad(pmmath.NewVec3(0, 0, roomSize), pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, roomSize, 0), mirror),
		NewQuad(pmmath.NewVec3(0, 0, 0), pmmath.NewVec3(0, 0, roomSize), pmmath.NewVec3(0, roomSize, 0), red),
		NewQuad(pmmath.NewVec3(roomSize, 0, 0), pmmath.NewVec3(0, 0, roomSize), pmmath.NewVec3(0, roomSize, 0), green),
		cornellLight(),
	}
	return New(sceneBounds(), pmmath.Vec3{}, shapes...)
}
