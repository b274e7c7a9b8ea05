package material

import (
	"math"

	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// FresnelDielectric computes the unpolarized Fresnel reflectance for a
// dielectric interface, exact (not Schlick), given the incident-side index
// n1, transmitted-side index n2, and cosThetaI >= 0 (already resolved to the
// shading side).
func FresnelDielectric(n1, n2, cosThetaI float64) float64 {
	cosThetaI = math.Min(math.Max(cosThetaI, 0), 1)
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := n1 / n2 * sinThetaI
	if sinThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParallel := (n2*cosThetaI - n1*cosThetaT) / (n2*cosThetaI + n1*cosThetaT)
	rPerp := (n1*cosThetaI - n2*cosThetaT) / (n1*cosThetaI + n2*cosThetaT)
	return (rParallel*rParallel + rPerp*rPerp) / 2
}

// SchlickReflectance is the Schlick approximation to FresnelDielectric, used
// where a material author wants the cheaper form.
func SchlickReflectance(n1, n2, cosThetaI float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosThetaI, 5)
}

// FresnelConductor computes the (per-channel) Schlick-approximated
// reflectance of a conductor given its normal-incidence reflectivity f0.
func FresnelConductor(f0 pmmath.Vec3, cosThetaI float64) pmmath.Vec3 {
	cosThetaI = math.Min(math.Max(cosThetaI, 0), 1)
	factor := math.Pow(1-cosThetaI, 5)
	white := pmmath.NewVec3(1, 1, 1)
	return f0.Add(white.Subtract(f0).Multiply(factor))
}

// reflectVector reflects v about normal n (both unit vectors), v pointing
// away from the surface.
func reflectVector(v, n pmmath.Vec3) pmmath.Vec3 {
	return n.Multiply(2 * v.Dot(n)).Subtract(v)
}

// refractVector refracts incoming unit direction d (pointing toward the
// surface) through a normal n facing against d, with eta = n1/n2. ok is
// false on total internal reflection.
func refractVector(d, n pmmath.Vec3, eta float64) (pmmath.Vec3, bool) {
	cosThetaI := -d.Dot(n)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return pmmath.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	t := d.Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT))
	return t.Normalize(), true
}
