package material

import (
	"math"

	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Lambertian is a perfectly diffuse material: it never takes the
// REFLECT/REFRACT branches and its BRDF is a flat reflectance/pi.
type Lambertian struct {
	Albedo pmmath.Vec3
}

func NewLambertian(albedo pmmath.Vec3) *Lambertian { return &Lambertian{Albedo: albedo} }

func (m *Lambertian) Emittance() pmmath.Vec3       { return pmmath.Vec3{} }
func (m *Lambertian) IOR() float64                 { return 1.0 }
func (m *Lambertian) ExternalIOR() float64         { return 1.0 }
func (m *Lambertian) Transparency() float64        { return 0 }
func (m *Lambertian) ReflectProbability() float64  { return 0 }
func (m *Lambertian) Opaque() bool                 { return true }
func (m *Lambertian) PerfectMirror() bool          { return false }
func (m *Lambertian) ComplexIOR() bool             { return false }
func (m *Lambertian) RoughSpecular() bool          { return false }
func (m *Lambertian) CanDiffuselyReflect() bool    { return true }

func (m *Lambertian) SpecularMicrofacetNormal(localOut pmmath.Vec3, u1, u2 float64) pmmath.Vec3 {
	return pmmath.NewVec3(0, 0, 1)
}

func (m *Lambertian) SpecularBRDF(localIn, localOut pmmath.Vec3, inside bool) pmmath.Vec3 {
	return pmmath.Vec3{}
}

func (m *Lambertian) DiffuseBRDF(localIn, localOut pmmath.Vec3) pmmath.Vec3 {
	return m.Albedo.Multiply(1.0 / math.Pi)
}

// Metal is a conductor: a perfect or rough mirror whose reflectance is
// tinted by a normal-incidence reflectivity (F0) rather than following
// dielectric Fresnel.
type Metal struct {
	F0        pmmath.Vec3
	Roughness float64 // 0 = perfect mirror
}

func NewMetal(f0 pmmath.Vec3, roughness float64) *Metal {
	if roughness < 0 {
		roughness = 0
	}
	return &Metal{F0: f0, Roughness: roughness}
}

func (m *Metal) Emittance() pmmath.Vec3      { return pmmath.Vec3{} }
func (m *Metal) IOR() float64                { return 1.0 }
func (m *Metal) ExternalIOR() float64        { return 1.0 }
func (m *Metal) Transparency() float64       { return 0 }
func (m *Metal) ReflectProbability() float64 { return 1.0 }
func (m *Metal) Opaque() bool                { return true }
func (m *Metal) PerfectMirror() bool         { return m.Roughness == 0 }
func (m *Metal) ComplexIOR() bool            { return true }
func (m *Metal) RoughSpecular() bool         { return m.Roughness > 0 }
func (m *Metal) CanDiffuselyReflect() bool   { return false }

// SpecularMicrofacetNormal draws a Beckmann-style microfacet normal around
// the shading normal (0,0,1) in the local frame, perturbed by Roughness.
func (m *Metal) SpecularMicrofacetNormal(localOut pmmath.Vec3, u1, u2 float64) pmmath.Vec3 {
	alpha := m.Roughness * m.Roughness
	tanTheta2 := -alpha * alpha * math.Log(1-u1)
	cosTheta := 1 / math.Sqrt(1+tanTheta2)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u2
	return pmmath.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

func (m *Metal) SpecularBRDF(localIn, localOut pmmath.Vec3, inside bool) pmmath.Vec3 {
	if m.Roughness == 0 {
		reflected := pmmath.NewVec3(-localIn.X, -localIn.Y, localIn.Z)
		if reflected.Subtract(localOut).LengthSquared() < 1e-6 {
			return m.F0
		}
		return pmmath.Vec3{}
	}
	n := pmmath.NewVec3(0, 0, 1)
	h := localIn.Negate().Add(localOut).Normalize()
	d := beckmannD(h, n, m.Roughness)
	g := smithG1(localOut, n, m.Roughness) * smithG1(localIn.Negate(), n, m.Roughness)
	f := FresnelConductor(m.F0, math.Max(0, localOut.Dot(h)))
	denom := 4*math.Max(1e-6, n.Dot(localOut))*math.Max(1e-6, n.Dot(localIn.Negate())) + 1e-9
	return f.Multiply(d * g / denom)
}

func (m *Metal) DiffuseBRDF(localIn, localOut pmmath.Vec3) pmmath.Vec3 { return pmmath.Vec3{} }

// Dielectric is a transparent material like glass or water: it reflects and
// refracts per exact Fresnel, with no diffuse lobe.
type Dielectric struct {
	RefractiveIndex float64
}

func NewDielectric(ior float64) *Dielectric { return &Dielectric{RefractiveIndex: ior} }

func (m *Dielectric) Emittance() pmmath.Vec3      { return pmmath.Vec3{} }
func (m *Dielectric) IOR() float64                { return m.RefractiveIndex }
func (m *Dielectric) ExternalIOR() float64        { return 1.0 }
func (m *Dielectric) Transparency() float64       { return 1.0 }
func (m *Dielectric) ReflectProbability() float64 { return -1 } // use Fresnel
func (m *Dielectric) Opaque() bool                { return false }
func (m *Dielectric) PerfectMirror() bool         { return false }
func (m *Dielectric) ComplexIOR() bool            { return false }
func (m *Dielectric) RoughSpecular() bool         { return false }
func (m *Dielectric) CanDiffuselyReflect() bool   { return false }

func (m *Dielectric) SpecularMicrofacetNormal(localOut pmmath.Vec3, u1, u2 float64) pmmath.Vec3 {
	return pmmath.NewVec3(0, 0, 1)
}

// SpecularBRDF returns a delta-function contribution of 1.0 when the local
// directions match the perfect reflection or refraction geometry for the
// branch already selected by Interaction.SelectType; the caller (the
// tracer/estimator) is responsible for weighting by the branch probability.
func (m *Dielectric) SpecularBRDF(localIn, localOut pmmath.Vec3, inside bool) pmmath.Vec3 {
	n := pmmath.NewVec3(0, 0, 1)
	d := localIn.Negate()

	reflected := reflectVector(localIn, n)
	if reflected.Subtract(localOut).LengthSquared() < 1e-6 {
		return pmmath.NewVec3(1, 1, 1)
	}

	// localIn is the transmitted direction: refracting its reverse about
	// -n with the reverse index ratio recovers localOut.
	eta := m.RefractiveIndex
	if inside {
		eta = 1.0 / m.RefractiveIndex
	}
	if refracted, ok := refractVector(d, n.Negate(), eta); ok {
		if refracted.Subtract(localOut).LengthSquared() < 1e-6 {
			return pmmath.NewVec3(1, 1, 1)
		}
	}
	return pmmath.Vec3{}
}

func (m *Dielectric) DiffuseBRDF(localIn, localOut pmmath.Vec3) pmmath.Vec3 { return pmmath.Vec3{} }

// Emissive is a light-emitting material with no reflective behavior of its
// own; surfaces using it are treated as area lights.
type Emissive struct {
	Radiance pmmath.Vec3
}

func NewEmissive(radiance pmmath.Vec3) *Emissive { return &Emissive{Radiance: radiance} }

func (m *Emissive) Emittance() pmmath.Vec3      { return m.Radiance }
func (m *Emissive) IOR() float64                { return 1.0 }
func (m *Emissive) ExternalIOR() float64        { return 1.0 }
func (m *Emissive) Transparency() float64       { return 0 }
func (m *Emissive) ReflectProbability() float64 { return 0 }
func (m *Emissive) Opaque() bool                { return true }
func (m *Emissive) PerfectMirror() bool         { return false }
func (m *Emissive) ComplexIOR() bool            { return false }
func (m *Emissive) RoughSpecular() bool         { return false }
func (m *Emissive) CanDiffuselyReflect() bool   { return false }

func (m *Emissive) SpecularMicrofacetNormal(localOut pmmath.Vec3, u1, u2 float64) pmmath.Vec3 {
	return pmmath.NewVec3(0, 0, 1)
}
func (m *Emissive) SpecularBRDF(localIn, localOut pmmath.Vec3, inside bool) pmmath.Vec3 {
	return pmmath.Vec3{}
}
func (m *Emissive) DiffuseBRDF(localIn, localOut pmmath.Vec3) pmmath.Vec3 { return pmmath.Vec3{} }

// beckmannD is the Beckmann microfacet normal distribution, grounded on the
// Cook-Torrance formulation: concentrates mass near the shading normal as
// roughness shrinks.
func beckmannD(h, n pmmath.Vec3, roughness float64) float64 {
	roughness = math.Max(roughness, 1e-3)
	cosTheta := n.Dot(h)
	if cosTheta <= 0 {
		return 0
	}
	m2 := roughness * roughness
	cos2 := cosTheta * cosTheta
	exponent := (cos2 - 1) / (m2 * cos2)
	return math.Exp(exponent) / (math.Pi * m2 * cos2 * cos2)
}

// smithG1 is the Smith-Beckmann shadowing-masking term for one direction.
func smithG1(v, n pmmath.Vec3, roughness float64) float64 {
	cosThetaV := math.Max(0, n.Dot(v))
	if cosThetaV <= 0 {
		return 0
	}
	tanThetaV := math.Sqrt(1-cosThetaV*cosThetaV) / cosThetaV
	if tanThetaV == 0 {
		return 1
	}
	a := 1 / (roughness * tanThetaV)
	if a >= 1.6 {
		return 1
	}
	return (3.535*a + 2.181*a*a) / (1 + 2.276*a + 2.577*a*a)
}
