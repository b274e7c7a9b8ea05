// Package scene provides the minimal concrete Scene/Surface implementation
// the photon tracer and radiance estimator are exercised against: a small
// fixed list of axis-aligned quads and one analytic sphere, intersected by
// a linear scan rather than a full acceleration structure. It is not a
// general scene-document loader; assembling a particular room (Cornell
// box, glass-sphere caustic scene, mirror box) is the job of the builder
// functions in demo.go.
package scene

import (
	"math"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// shape is the internal contract a concrete primitive satisfies: it can be
// ray-intersected and it exposes the material.Surface contract the tracer
// needs for sampling and area accounting.
type shape interface {
	material.Surface
	hit(ray pmmath.Ray, tMin, tMax float64) (t float64, normal pmmath.Vec3, ok bool)
}

// Quad is an axis-aligned parallelogram surface spanned by two edge
// vectors from a corner: corner + u*edgeU + v*edgeV for u,v in [0,1].
type Quad struct {
	Corner, EdgeU, EdgeV pmmath.Vec3
	Mat                  material.Material

	normal pmmath.Vec3
	area   float64
}

// NewQuad builds a quad and precomputes its (constant) normal and area.
func NewQuad(corner, edgeU, edgeV pmmath.Vec3, mat material.Material) *Quad {
	cross := edgeU.Cross(edgeV)
	return &Quad{
		Corner: corner, EdgeU: edgeU, EdgeV: edgeV, Mat: mat,
		normal: cross.Normalize(),
		area:   cross.Length(),
	}
}

func (q *Quad) Sample(u, v float64) pmmath.Vec3 {
	return q.Corner.Add(q.EdgeU.Multiply(u)).Add(q.EdgeV.Multiply(v))
}

func (q *Quad) Normal(p pmmath.Vec3) pmmath.Vec3 { return q.normal }
func (q *Quad) Area() float64                    { return q.area }
func (q *Quad) Material() material.Material      { return q.Mat }

func (q *Quad) hit(ray pmmath.Ray, tMin, tMax float64) (float64, pmmath.Vec3, bool) {
	denom := q.normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-10 {
		return 0, pmmath.Vec3{}, false
	}
	t := q.normal.Dot(q.Corner.Subtract(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return 0, pmmath.Vec3{}, false
	}

	p := ray.At(t)
	rel := p.Subtract(q.Corner)
	uu := q.EdgeU.LengthSquared()
	vv := q.EdgeV.LengthSquared()
	uv := q.EdgeU.Dot(q.EdgeV)
	wu := rel.Dot(q.EdgeU)
	wv := rel.Dot(q.EdgeV)
	det := uu*vv - uv*uv
	if math.Abs(det) < 1e-12 {
		return 0, pmmath.Vec3{}, false
	}
	alpha := (wu*vv - wv*uv) / det
	beta := (wv*uu - wu*uv) / det
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, pmmath.Vec3{}, false
	}
	return t, q.normal, true
}

// Sphere is an analytic sphere surface, used for the dielectric caustic
// end-to-end scenario.
type Sphere struct {
	Center pmmath.Vec3
	Radius float64
	Mat    material.Material
}

func NewSphere(center pmmath.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Mat: mat}
}

func (s *Sphere) Sample(u, v float64) pmmath.Vec3 {
	theta := math.Acos(2*u - 1)
	phi := 2 * math.Pi * v
	dir := pmmath.NewVec3(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta))
	return s.Center.Add(dir.Multiply(s.Radius))
}

func (s *Sphere) Normal(p pmmath.Vec3) pmmath.Vec3 {
	return p.Subtract(s.Center).Multiply(1 / s.Radius)
}

func (s *Sphere) Area() float64               { return 4 * math.Pi * s.Radius * s.Radius }
func (s *Sphere) Material() material.Material { return s.Mat }

func (s *Sphere) hit(ray pmmath.Ray, tMin, tMax float64) (float64, pmmath.Vec3, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, pmmath.Vec3{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return 0, pmmath.Vec3{}, false
		}
	}
	p := ray.At(root)
	return root, s.Normal(p), true
}

// emitterQuad wraps a Quad whose material emits light, so it can satisfy
// material.Emitter.
type emitterQuad struct {
	*Quad
}

func (e emitterQuad) Power() pmmath.Vec3 {
	return e.Mat.Emittance().Multiply(e.Area() * math.Pi)
}
