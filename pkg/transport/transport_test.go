package transport

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

func mirrorInteraction() *material.Interaction {
	ray := pmmath.NewRay(pmmath.NewVec3(0, 0, 2), pmmath.NewVec3(0, 0, -1))
	mat := material.NewMetal(pmmath.NewVec3(0.9, 0.9, 0.9), 0)
	in := material.NewInteraction(ray, 1.0, pmmath.NewVec3(0, 0, 1), pmmath.Vec3{}, mat, 0, 0)
	in.SelectType(0.01) // perfect mirror always reflects regardless of p
	return in
}

func glassInteraction(incomingDir pmmath.Vec3, p float64) *material.Interaction {
	ray := pmmath.NewRay(pmmath.NewVec3(0, 0, 2), incomingDir)
	mat := material.NewDielectric(1.5)
	in := material.NewInteraction(ray, 1.0, pmmath.NewVec3(0, 0, 1), pmmath.Vec3{}, mat, 0, 0)
	in.SelectType(p)
	return in
}

func TestReflectDiffuseStaysInShadingHemisphere(t *testing.T) {
	ray := pmmath.NewRay(pmmath.NewVec3(0, 0, 2), pmmath.NewVec3(0, 0, -1))
	mat := material.NewLambertian(pmmath.NewVec3(0.7, 0.7, 0.7))
	in := material.NewInteraction(ray, 1.0, pmmath.NewVec3(0, 0, 1), pmmath.Vec3{}, mat, 0, 0)
	in.SelectType(0.99)

	r := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 100; i++ {
		bounce := ReflectDiffuse(in, r.Float64(), r.Float64())
		if bounce.Direction.Dot(in.Shading) < -1e-9 {
			t.Fatalf("diffuse bounce fell below the hemisphere: dir=%v shading=%v", bounce.Direction, in.Shading)
		}
		if bounce.Specular {
			t.Errorf("diffuse bounce should clear the specular flag")
		}
		if bounce.MediumIOR != in.N1 {
			t.Errorf("diffuse bounce should stay in medium n1=%v, got %v", in.N1, bounce.MediumIOR)
		}
	}
}

func TestReflectSpecularMirrorsIncomingDirection(t *testing.T) {
	in := mirrorInteraction()
	incoming := pmmath.NewVec3(0.3, 0, -0.95).Normalize()

	bounce, ok := ReflectSpecular(in, incoming)
	if !ok {
		t.Fatalf("expected the mirrored direction to stay in the upper hemisphere")
	}
	if !bounce.Specular {
		t.Errorf("specular bounce should set the specular flag")
	}
	if bounce.Direction.Z < 0 {
		t.Errorf("expected the z component to flip sign on reflection, got %v", bounce.Direction)
	}
}

func TestRefractSpecularUnbentAtNormalIncidence(t *testing.T) {
	in := glassInteraction(pmmath.NewVec3(0, 0, -1), 0.99)
	if in.Type != material.Refract {
		t.Fatalf("expected p=0.99 to select REFRACT (Fresnel reflectance at normal incidence is well below 1), got %v", in.Type)
	}

	bounce, ok := RefractSpecular(in, pmmath.NewVec3(0, 0, -1))
	if !ok {
		t.Fatalf("expected refraction to succeed at normal incidence")
	}
	if bounce.Direction.Subtract(pmmath.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("normal-incidence refraction should not bend the ray, got %v", bounce.Direction)
	}
	if bounce.MediumIOR != in.N2 {
		t.Errorf("expected medium to switch to n2=%v, got %v", in.N2, bounce.MediumIOR)
	}
}

func TestRefractSpecularDegradesToReflectionUnderTIR(t *testing.T) {
	// A ray already inside glass hitting the boundary at a steep grazing
	// angle cannot refract back out; RefractSpecular should fall back to a
	// reflection and keep the incident-side medium.
	ray := pmmath.NewRay(pmmath.NewVec3(0, 0, 0.5), pmmath.NewVec3(0.99, 0, 0.1411).Normalize())
	ray.MediumIOR = 1.5
	mat := material.NewDielectric(1.5)
	in := material.NewInteraction(ray, 1.0, pmmath.NewVec3(0, 0, 1), pmmath.Vec3{}, mat, 0, 0)
	in.SelectType(0.99)

	bounce, ok := RefractSpecular(in, ray.Direction)
	if !ok {
		t.Fatalf("degraded reflection should still report ok")
	}
	if bounce.MediumIOR != in.N1 {
		t.Errorf("TIR fallback should keep the incident medium n1=%v, got %v", in.N1, bounce.MediumIOR)
	}
	if math.Abs(bounce.Direction.Length()-1) > 1e-9 {
		t.Errorf("expected a unit direction, got length %v", bounce.Direction.Length())
	}
}
