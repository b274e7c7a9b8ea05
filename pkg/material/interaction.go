package material

import "github.com/arcbeam/photonmap/pkg/pmmath"

// ScatterType identifies which of the three weighted branches an
// Interaction resolved to.
type ScatterType int

const (
	Reflect ScatterType = iota
	Refract
	Diffuse
)

func (t ScatterType) String() string {
	switch t {
	case Reflect:
		return "reflect"
	case Refract:
		return "refract"
	case Diffuse:
		return "diffuse"
	default:
		return "unknown"
	}
}

// Interaction is everything derived at a single ray/surface hit: the
// geometry of the hit, the medium on either side, and (once SelectType
// runs) which of the three scattering branches was drawn and the local
// frame that branch shades in.
type Interaction struct {
	T          float64
	Position   pmmath.Vec3
	Normal     pmmath.Vec3 // geometric normal, flipped to face -ray.direction
	Shading    pmmath.Vec3 // shading normal, flipped to face -ray.direction
	Material   Material
	Out        pmmath.Vec3 // -ray.direction
	N1, N2     float64
	Inside     bool
	specular   pmmath.Vec3 // specular/microfacet normal, world space
	hasSpecNrm bool

	Type ScatterType
	CS   pmmath.CoordinateSystem
}

// NewInteraction builds an Interaction from a ray and the raw intersection
// data. interpolatedNormal may be the zero vector if the surface has no
// interpolated shading normal, in which case the geometric normal is used
// for shading too. u1, u2 are only consumed when mat.RoughSpecular(); pass
// any value otherwise.
func NewInteraction(ray pmmath.Ray, t float64, geomNormal, interpolatedNormal pmmath.Vec3, mat Material, u1, u2 float64) *Interaction {
	ng := geomNormal.Normalize()
	ns := ng
	if !interpolatedNormal.IsZero() {
		candidate := interpolatedNormal.Normalize()
		// Reject an interpolated normal that disagrees with the geometric
		// one about which side the ray hit: prevents self-shadowing on
		// silhouettes where vertex normals diverge from the true face.
		if sign(ray.Direction.Dot(candidate)) == sign(ray.Direction.Dot(ng)) {
			ns = candidate
		}
	}

	outside := ray.Direction.Dot(ng) < 0 || mat.Opaque()
	var n1, n2 float64
	inside := false
	if outside {
		n1, n2 = ray.MediumIOR, mat.IOR()
	} else {
		n1, n2 = ray.MediumIOR, mat.ExternalIOR()
		inside = true
	}

	// Flip both normals so they face back toward the ray origin.
	if ng.Dot(ray.Direction) > 0 {
		ng = ng.Negate()
	}
	if ns.Dot(ray.Direction) > 0 {
		ns = ns.Negate()
	}

	in := &Interaction{
		T:        t,
		Position: ray.At(t),
		Normal:   ng,
		Shading:  ns,
		Material: mat,
		Out:      ray.Direction.Negate(),
		N1:       n1,
		N2:       n2,
		Inside:   inside,
	}

	if mat.RoughSpecular() {
		shadingFrame := pmmath.NewCoordinateSystem(ns)
		localOut := shadingFrame.ToLocal(in.Out)
		localH := mat.SpecularMicrofacetNormal(localOut, u1, u2)
		in.specular = shadingFrame.ToWorld(localH).Normalize()
		in.hasSpecNrm = true
	}

	return in
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// specularNormal returns the normal the specular/refractive branches shade
// around: the sampled microfacet normal for rough-specular materials, the
// shading normal otherwise.
func (in *Interaction) specularNormal() pmmath.Vec3 {
	if in.hasSpecNrm {
		return in.specular
	}
	return in.Shading
}

// SelectType draws the three-way branch (REFLECT/REFRACT/DIFFUSE) using a
// single uniform sample p, sets in.Type, and builds the local coordinate
// frame the chosen branch shades in (the sampled specular normal for
// REFLECT/REFRACT, the shading normal for DIFFUSE).
func (in *Interaction) SelectType(p float64) {
	m := in.Material

	if m.PerfectMirror() || m.ComplexIOR() {
		in.Type = Reflect
		in.CS = pmmath.NewCoordinateSystem(in.specularNormal())
		return
	}

	r := m.ReflectProbability()
	if r < 0 {
		r = FresnelDielectric(in.N1, in.N2, in.Shading.Dot(in.Out))
	}
	transparency := m.Transparency()

	switch {
	case r > p:
		in.Type = Reflect
		in.CS = pmmath.NewCoordinateSystem(in.specularNormal())
	case r+(1-r)*transparency > p:
		in.Type = Refract
		in.CS = pmmath.NewCoordinateSystem(in.specularNormal())
	default:
		in.Type = Diffuse
		in.CS = pmmath.NewCoordinateSystem(in.Shading)
	}
}

// EvaluateBRDF evaluates the material's BRDF for a world-space incoming
// direction dIn, given the branch SelectType already chose. Returns zero at
// grazing angles (the local frame's z component vanishing).
func (in *Interaction) EvaluateBRDF(dIn pmmath.Vec3) pmmath.Vec3 {
	localIn := in.CS.ToLocal(dIn)
	localOut := in.CS.ToLocal(in.Out)
	if localIn.Z == 0 || localOut.Z == 0 {
		return pmmath.Vec3{}
	}

	if in.Type == Diffuse {
		return in.Material.DiffuseBRDF(localIn, localOut)
	}

	return in.Material.SpecularBRDF(localIn, localOut, in.Inside)
}
