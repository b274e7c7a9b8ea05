package scene

import (
	"math"

	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Camera is a simple pinhole camera: no lens, no depth of field. It only
// needs to generate primary rays for the radiance estimator's outer render
// loop; the photon tracer never uses it.
type Camera struct {
	origin          pmmath.Vec3
	lowerLeftCorner pmmath.Vec3
	horizontal      pmmath.Vec3
	vertical        pmmath.Vec3
}

// NewCamera builds a pinhole camera looking down +Z from origin, with the
// given vertical field of view (degrees) and aspect ratio.
func NewCamera(origin pmmath.Vec3, vfovDegrees, aspectRatio float64) *Camera {
	return NewCameraLookAt(origin, origin.Add(pmmath.NewVec3(0, 0, 1)), pmmath.NewVec3(0, 1, 0), vfovDegrees, aspectRatio)
}

// NewCameraLookAt builds a pinhole camera at lookFrom oriented toward
// lookAt, with up giving the roll. The demo scenes use this to view the
// Cornell box's open face regardless of which axis it happens to face.
func NewCameraLookAt(lookFrom, lookAt, up pmmath.Vec3, vfovDegrees, aspectRatio float64) *Camera {
	theta := vfovDegrees * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	viewportHeight := 2 * halfHeight
	viewportWidth := aspectRatio * viewportHeight

	w := lookFrom.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := lookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{origin: lookFrom, horizontal: horizontal, vertical: vertical, lowerLeftCorner: lowerLeftCorner}
}

// GetRay returns the primary ray for normalized screen coordinates
// (s, t) in [0, 1].
func (c *Camera) GetRay(s, t float64) pmmath.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)
	return pmmath.NewRay(c.origin, direction)
}
