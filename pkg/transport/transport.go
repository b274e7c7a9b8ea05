// Package transport implements the ray transforms a scattering event
// applies once Interaction.SelectType has chosen a branch: the diffuse
// cosine-weighted bounce, the specular mirror bounce, and the refractive
// bounce with its total-internal-reflection fallback.
package transport

import (
	"math"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Bias is the self-intersection offset applied to every spawned ray
// origin, scaled to the renderer's working unit (~1e-7 of scene scale).
const Bias = 1e-7

// ReflectDiffuse draws a cosine-weighted hemisphere sample around the
// interaction's shading normal and returns the resulting bounce ray.
func ReflectDiffuse(in *material.Interaction, u1, u2 float64) pmmath.Ray {
	dir := pmmath.RandomCosineDirection(in.Shading, u1, u2)
	origin := in.Position.Add(in.Shading.Multiply(Bias))
	return pmmath.Ray{
		Origin:    origin,
		Direction: dir,
		MediumIOR: in.N1,
		Specular:  false,
	}
}

// ReflectSpecular mirrors the incoming ray about the interaction's
// specular normal. ok reports whether the reflected direction lies in the
// upper hemisphere of the shading normal; callers should skip contribution
// when it does not.
func ReflectSpecular(in *material.Interaction, incoming pmmath.Vec3) (ray pmmath.Ray, ok bool) {
	n := in.CS.Normal
	dir := incoming.Subtract(n.Multiply(2 * incoming.Dot(n)))
	origin := in.Position.Add(in.Normal.Multiply(Bias))
	ray = pmmath.Ray{
		Origin:    origin,
		Direction: dir,
		MediumIOR: in.N1,
		Specular:  true,
	}
	ok = dir.Dot(in.Shading) > 0
	return ray, ok
}

// RefractSpecular applies Snell's law with eta = n1/n2 around the
// interaction's specular normal. If the geometry totally internally
// reflects, it degrades to ReflectSpecular and keeps the medium at n1.
func RefractSpecular(in *material.Interaction, incoming pmmath.Vec3) (ray pmmath.Ray, ok bool) {
	n := in.CS.Normal
	eta := in.N1 / in.N2

	d := incoming.Normalize()
	cosThetaI := -d.Dot(n)
	sin2ThetaI := 1 - cosThetaI*cosThetaI
	if sin2ThetaI < 0 {
		sin2ThetaI = 0
	}
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		// Total internal reflection: degrade to reflection, medium stays n1.
		return ReflectSpecular(in, incoming)
	}

	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	dir := d.Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT)).Normalize()
	origin := in.Position.Subtract(in.Normal.Multiply(Bias))
	ray = pmmath.Ray{
		Origin:    origin,
		Direction: dir,
		MediumIOR: in.N2,
		Specular:  true,
	}
	return ray, true
}
