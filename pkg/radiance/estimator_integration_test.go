package radiance_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/arcbeam/photonmap/pkg/photon"
	"github.com/arcbeam/photonmap/pkg/pmmath"
	"github.com/arcbeam/photonmap/pkg/radiance"
	"github.com/arcbeam/photonmap/pkg/scene"
)

func buildCornellMaps(t *testing.T) (*scene.Scene, photon.Config, *photon.Maps) {
	t.Helper()
	s := scene.NewCornellBox()
	cfg := photon.Config{
		Emissions:               5000,
		CausticFactor:           1,
		MaxRadius:               0.6,
		MaxCausticRadius:        0.3,
		KNearestPhotons:         50,
		MaxPhotonsPerOctreeLeaf: 8,
		NumThreads:              2,
		MaxRayDepth:             8,
		MinRayDepth:             2,
		UseShadowPhotons:        true,
	}
	tr := photon.NewTracer(cfg)
	seed := uint64(7)
	tr.Seed = &seed

	maps, err := tr.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	return s, cfg, maps
}

func TestSampleRayReturnsFiniteNonNegativeRadiance(t *testing.T) {
	s, cfg, maps := buildCornellMaps(t)
	est := radiance.NewEstimator(cfg, maps)
	rng := rand.New(rand.NewPCG(11, 22))

	bounds := s.BoundingBox()
	center := bounds.Center()

	for i := 0; i < 50; i++ {
		dir := pmmath.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize()
		ray := pmmath.NewRay(center, dir)
		radianceOut := est.SampleRay(s, rng, ray)
		if !radianceOut.IsFinite() {
			t.Fatalf("sample %d: radiance is not finite: %v", i, radianceOut)
		}
		if !radianceOut.NonNegative() {
			t.Errorf("sample %d: radiance has a negative channel: %v", i, radianceOut)
		}
	}
}

func TestSampleRayDirectHitOnLightReturnsItsEmittance(t *testing.T) {
	s, cfg, maps := buildCornellMaps(t)
	est := radiance.NewEstimator(cfg, maps)
	rng := rand.New(rand.NewPCG(3, 4))

	emitters := s.Emitters()
	if len(emitters) == 0 {
		t.Fatal("expected the Cornell box to have at least one emitter")
	}
	lightPoint := emitters[0].Sample(0.5, 0.5)
	origin := lightPoint.Subtract(pmmath.NewVec3(0, 1, 0))
	ray := pmmath.NewRay(origin, pmmath.NewVec3(0, 1, 0))

	got := est.SampleRay(s, rng, ray)
	want := emitters[0].Material().Emittance()
	if got.Subtract(want).Length() > 1e-6 {
		t.Errorf("expected a primary ray straight at the light to return its emittance %v, got %v", want, got)
	}
}

func TestSampleRayExhaustsAtMaxDepthWithoutPanicking(t *testing.T) {
	_, cfg, maps := buildCornellMaps(t)
	est := radiance.NewEstimator(cfg, maps)
	s := scene.NewCornellBox()
	rng := rand.New(rand.NewPCG(5, 6))

	ray := pmmath.NewRay(pmmath.NewVec3(5, 5, 5), pmmath.NewVec3(0, -1, 0))
	ray.Depth = cfg.MaxRayDepth

	got := est.SampleRay(s, rng, ray)
	if !got.IsZero() {
		t.Errorf("expected zero radiance for a ray already at max depth, got %v", got)
	}
}
