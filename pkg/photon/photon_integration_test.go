package photon_test

import (
	"context"
	"testing"

	"github.com/arcbeam/photonmap/pkg/octree"
	"github.com/arcbeam/photonmap/pkg/photon"
	"github.com/arcbeam/photonmap/pkg/scene"
)

func testConfig() photon.Config {
	return photon.Config{
		Emissions:               3000,
		CausticFactor:           1,
		MaxRadius:               0.5,
		MaxCausticRadius:        0.3,
		KNearestPhotons:         50,
		MaxPhotonsPerOctreeLeaf: 8,
		NumThreads:              2,
		MaxRayDepth:             8,
		MinRayDepth:             2,
	}
}

func seeded(tr *photon.Tracer, seed uint64) *photon.Tracer {
	tr.Seed = &seed
	return tr
}

func TestRunCornellBoxStoresDiffusePhotonsInsideBounds(t *testing.T) {
	s := scene.NewCornellBox()
	tr := seeded(photon.NewTracer(testConfig()), 42)

	maps, err := tr.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	direct, indirect, caustic, _ := maps.Counts()
	if direct+indirect+caustic == 0 {
		t.Fatalf("expected at least some diffuse photons stored, got direct=%d indirect=%d caustic=%d", direct, indirect, caustic)
	}

	bounds := s.BoundingBox()
	center := bounds.Center()
	diag := bounds.Max.Subtract(bounds.Min).Length()

	for _, hits := range [][]octree.Hit[photon.Photon]{
		maps.Direct.KNN(center, direct+1, diag),
		maps.Indirect.KNN(center, indirect+1, diag),
		maps.Caustic.KNN(center, caustic+1, diag),
	} {
		for _, h := range hits {
			if !bounds.Contains(h.Point.Position()) {
				t.Errorf("photon stored outside scene bounds: %v", h.Point.Position())
			}
			if h.Point.Flux.MaxComponent() < 0 || !h.Point.Flux.IsFinite() {
				t.Errorf("photon flux not finite/non-negative: %v", h.Point.Flux)
			}
		}
	}
}

func TestRunSingleThreadedIsDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.NumThreads = 1

	run := func() (int, int, int, int) {
		s := scene.NewCornellBox()
		tr := seeded(photon.NewTracer(cfg), 1234)
		maps, err := tr.Run(context.Background(), s)
		if err != nil {
			t.Fatalf("Run returned an error: %v", err)
		}
		return maps.Counts()
	}

	d1, i1, c1, s1 := run()
	d2, i2, c2, s2 := run()
	if d1 != d2 || i1 != i2 || c1 != c2 || s1 != s2 {
		t.Errorf("expected identical photon counts from identical seeds at num_threads=1, got (%d,%d,%d,%d) vs (%d,%d,%d,%d)", d1, i1, c1, s1, d2, i2, c2, s2)
	}
}

func TestRunMirrorSceneRoutesSpecularPathsToCaustic(t *testing.T) {
	s := scene.NewMirrorScene()
	cfg := testConfig()
	cfg.Emissions = 20000
	tr := seeded(photon.NewTracer(cfg), 7)

	maps, err := tr.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	_, _, caustic, _ := maps.Counts()
	if caustic == 0 {
		t.Errorf("expected the mirror wall to route at least some first-bounce-specular paths into the caustic map")
	}
}

func TestRunOccluderSceneProducesShadowPhotons(t *testing.T) {
	s := scene.NewOccluderScene()
	cfg := testConfig()
	cfg.Emissions = 8000
	cfg.UseShadowPhotons = true
	tr := seeded(photon.NewTracer(cfg), 99)

	maps, err := tr.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	if _, _, _, shadow := maps.Counts(); shadow == 0 {
		t.Errorf("expected the occluder scene to produce at least some shadow photons")
	}
}

func TestRunCausticSceneProducesCausticPhotonsThroughGlass(t *testing.T) {
	s := scene.NewCausticScene()
	cfg := testConfig()
	cfg.Emissions = 20000
	cfg.CausticFactor = 2
	tr := seeded(photon.NewTracer(cfg), 17)

	maps, err := tr.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	if _, _, caustic, _ := maps.Counts(); caustic == 0 {
		t.Errorf("expected the glass sphere to focus at least some caustic photons")
	}
}
