package pmmath

// Ray represents a ray carrying the integrator state the spec requires
// beyond origin/direction: the medium it currently travels through, its
// recursion depth, and whether its path prefix so far has been specular-only.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // always kept unit length by constructors/transforms

	MediumIOR float64 // index of refraction of the medium the ray currently travels through
	Depth     int     // number of bounces so far
	Specular  bool    // true if the last scattering event (if any) was REFLECT/REFRACT
}

// NewRay creates a ray with the given origin/direction in vacuum (IOR 1) at depth 0.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), MediumIOR: 1.0}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Bounce returns a copy of the ray advanced to a new origin/direction, with
// depth incremented and medium/specular state overridden by the caller.
func (r Ray) Bounce(origin, direction Vec3, mediumIOR float64, specular bool) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction.Normalize(),
		MediumIOR: mediumIOR,
		Depth:     r.Depth + 1,
		Specular:  specular,
	}
}
