package renderer

import (
	"context"
	"testing"

	"github.com/arcbeam/photonmap/pkg/photon"
	"github.com/arcbeam/photonmap/pkg/radiance"
	"github.com/arcbeam/photonmap/pkg/scene"
)

func TestRenderProducesFullSizeOpaqueImage(t *testing.T) {
	s := scene.NewCornellBox()
	cfg := photon.Config{
		Emissions:               2000,
		CausticFactor:           1,
		MaxRadius:               0.6,
		MaxCausticRadius:        0.3,
		KNearestPhotons:         30,
		MaxPhotonsPerOctreeLeaf: 8,
		NumThreads:              2,
		MaxRayDepth:             6,
		MinRayDepth:             2,
		UseShadowPhotons:        true,
	}
	tr := photon.NewTracer(cfg)
	seed := uint64(42)
	tr.Seed = &seed

	maps, err := tr.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	const w, h = 16, 16
	renderer := &TileRenderer{
		Scene:           s,
		Camera:          scene.DefaultCamera(float64(w) / float64(h)),
		Estimator:       radiance.NewEstimator(cfg, maps),
		Width:           w,
		Height:          h,
		SamplesPerPixel: 2,
	}

	img, err := renderer.Render(context.Background(), 7)
	if err != nil {
		t.Fatalf("Render returned an error: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != w || bounds.Dy() != h {
		t.Fatalf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a>>8 != 255 {
				t.Fatalf("pixel (%d,%d) not fully opaque", x, y)
			}
		}
	}
}
