// Package material defines the surface-shading contracts the tracer and the
// estimator program against (Material, Emitter, Surface), the interaction
// built at every ray/surface hit, and the concrete materials (Lambertian,
// Metal, Dielectric) used by the minimal demo scenes.
package material

import "github.com/arcbeam/photonmap/pkg/pmmath"

// Material is everything a surface needs to answer during Pass 1 (photon
// scattering) and Pass 2 (BRDF evaluation for the radiance estimate).
// Directions passed to the BRDF methods are already in the interaction's
// local shading frame.
type Material interface {
	// Emittance returns the material's self-emitted radiance, zero for
	// non-emissive materials.
	Emittance() pmmath.Vec3

	// IOR is the index of refraction of the material's interior, behind
	// its outward surface normal; it is n2 when a ray enters.
	IOR() float64
	// ExternalIOR is the index of refraction outside the surface, used as
	// n2 when a ray is exiting a dielectric rather than entering one.
	ExternalIOR() float64
	// Transparency is the material's refraction share of non-reflected energy.
	Transparency() float64
	// ReflectProbability is a material-specified override of the Fresnel
	// reflectance fraction; negative means "use Fresnel".
	ReflectProbability() float64

	// Opaque is true for materials that never refract (metals, diffuse
	// materials with zero transparency).
	Opaque() bool
	// PerfectMirror is true for ideal specular reflectors with no Fresnel
	// branching: the ray always reflects.
	PerfectMirror() bool
	// ComplexIOR is true for conductors, whose Fresnel term is evaluated
	// with the conductor formula instead of the dielectric one.
	ComplexIOR() bool
	// RoughSpecular is true for materials whose specular lobe is a
	// microfacet distribution rather than a perfect mirror.
	RoughSpecular() bool
	// CanDiffuselyReflect is true for materials that can scatter into the
	// DIFFUSE branch at all.
	CanDiffuselyReflect() bool

	// SpecularMicrofacetNormal samples a microfacet normal in the local
	// shading frame given the local outgoing direction. Called only when
	// RoughSpecular is true.
	SpecularMicrofacetNormal(localOut pmmath.Vec3, u1, u2 float64) pmmath.Vec3
	// SpecularBRDF evaluates the specular lobe for local in/out directions
	// already transformed into the interaction's local frame.
	SpecularBRDF(localIn, localOut pmmath.Vec3, inside bool) pmmath.Vec3
	// DiffuseBRDF evaluates the diffuse lobe for local in/out directions.
	DiffuseBRDF(localIn, localOut pmmath.Vec3) pmmath.Vec3
}

// Emitter is implemented by surfaces that contribute direct light: area
// lights sampled by next-event estimation and by emission budgeting.
type Emitter interface {
	Surface
	// Power returns the total radiant power emitted by the surface, used to
	// weight its share of the photon emission budget.
	Power() pmmath.Vec3
}

// Surface is a parametric shape with a material attached: the minimal
// contract the scene and the photon tracer need, independent of how the
// surface is actually intersected.
type Surface interface {
	// Sample returns a world-space point on the surface for parametric
	// coordinates (u, v) in [0,1)^2.
	Sample(u, v float64) pmmath.Vec3
	// Normal returns the outward surface normal at a point known to lie on
	// the surface.
	Normal(p pmmath.Vec3) pmmath.Vec3
	// Area returns the surface's total area, used to convert between area
	// and solid-angle measures when sampling.
	Area() float64
	// Material returns the surface's material.
	Material() Material
}
