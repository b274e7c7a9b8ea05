package radiance

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/octree"
	"github.com/arcbeam/photonmap/pkg/photon"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

func diffuseInteractionAt(pos pmmath.Vec3, albedo pmmath.Vec3) *material.Interaction {
	mat := material.NewLambertian(albedo)
	ray := pmmath.NewRay(pos.Add(pmmath.NewVec3(0, 1, 0)), pmmath.NewVec3(0, -1, 0))
	in := material.NewInteraction(ray, 1, pmmath.NewVec3(0, 1, 0), pmmath.Vec3{}, mat, 0, 0)
	in.SelectType(0.999) // Lambertian has ReflectProbability 0 and Transparency 0: always DIFFUSE
	return in
}

func TestEstimateRadianceSkipsWrongSidePhotons(t *testing.T) {
	pos := pmmath.NewVec3(0, 0, 0)
	in := diffuseInteractionAt(pos, pmmath.NewVec3(1, 1, 1))

	hits := []octree.Hit[photon.Photon]{
		// arrives travelling downward into the surface from above: counts.
		{Point: photon.NewPhoton(pos, pmmath.NewVec3(1, 1, 1), pmmath.NewVec3(0, -1, 0)), DistanceSq: 1},
		// arrives travelling from behind the surface: skipped.
		{Point: photon.NewPhoton(pos, pmmath.NewVec3(1, 1, 1), pmmath.NewVec3(0, 1, 0)), DistanceSq: 1},
	}

	got := estimateRadiance(hits, in)
	if got.IsZero() {
		t.Fatalf("expected a nonzero estimate from the one valid photon, got %v", got)
	}

	brdf := in.EvaluateBRDF(pmmath.NewVec3(0, -1, 0))
	want := pmmath.NewVec3(1, 1, 1).MultiplyVec(brdf)
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("expected %v from the single valid photon, got %v", want, got)
	}
}

func TestEstimateRadianceEmptyHitsIsZero(t *testing.T) {
	in := diffuseInteractionAt(pmmath.NewVec3(0, 0, 0), pmmath.NewVec3(1, 1, 1))
	if got := estimateRadiance(nil, in); !got.IsZero() {
		t.Errorf("expected zero estimate for no photons, got %v", got)
	}
}

func TestEstimateCausticRadianceIsFiniteAndNonNegative(t *testing.T) {
	pos := pmmath.NewVec3(0, 0, 0)
	in := diffuseInteractionAt(pos, pmmath.NewVec3(1, 1, 1))

	bounds := pmmath.NewAABB(pmmath.NewVec3(-5, -5, -5), pmmath.NewVec3(5, 5, 5))
	tree := octree.New[photon.Photon](bounds, 8)
	tree.Insert(photon.NewPhoton(pmmath.NewVec3(0.1, 0, 0), pmmath.NewVec3(1, 1, 1), pmmath.NewVec3(0, -1, 0)))
	tree.Insert(photon.NewPhoton(pmmath.NewVec3(1, 0, 0), pmmath.NewVec3(1, 1, 1), pmmath.NewVec3(0, -1, 0)))

	e := &Estimator{
		Config: photon.Config{KNearestPhotons: 2, MaxCausticRadius: 10},
		Maps:   &photon.Maps{Caustic: tree.Freeze()},
	}

	got := e.estimateCausticRadiance(in)
	if got.IsZero() {
		t.Fatalf("expected a nonzero caustic estimate, got %v", got)
	}
	if !got.IsFinite() || !got.NonNegative() {
		t.Errorf("expected a finite, non-negative caustic estimate, got %v", got)
	}
}

func TestSampleDirectReturnsZeroWithNoEmitters(t *testing.T) {
	e := &Estimator{Config: photon.Config{}, Maps: &photon.Maps{}}
	in := diffuseInteractionAt(pmmath.NewVec3(0, 0, 0), pmmath.NewVec3(1, 1, 1))
	rng := rand.New(rand.NewPCG(1, 2))

	got := e.sampleDirect(noEmittersScene{}, rng, in)
	if !got.IsZero() {
		t.Errorf("expected zero direct contribution with no emitters, got %v", got)
	}
}

type noEmittersScene struct{}

func (noEmittersScene) Intersect(ray pmmath.Ray, rng *rand.Rand) (*material.Interaction, bool) {
	return nil, false
}
func (noEmittersScene) BoundingBox() pmmath.AABB               { return pmmath.AABB{} }
func (noEmittersScene) Emitters() []material.Emitter           { return nil }
func (noEmittersScene) SkyRadiance(ray pmmath.Ray) pmmath.Vec3 { return pmmath.Vec3{} }

func TestRussianRouletteCapMatchesPhotonPackage(t *testing.T) {
	if photon.RussianRouletteCap(0, 2) != 1.0 {
		t.Errorf("expected cap 1.0 at or below min depth")
	}
	if math.Abs(photon.RussianRouletteCap(3, 2)-0.9) > 1e-12 {
		t.Errorf("expected cap 0.9 beyond min depth")
	}
}
