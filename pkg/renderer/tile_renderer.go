// Package renderer drives Pass 2's outer render loop: tiling the output
// image across worker goroutines and converting each pixel's accumulated
// radiance into a display-ready color, adapted from the progressive
// raytracer's tile renderer for a fixed-sample-count photon-map estimate
// rather than adaptive path tracing.
package renderer

import (
	"context"
	"image"
	"image/color"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/arcbeam/photonmap/pkg/pmmath"
	"github.com/arcbeam/photonmap/pkg/radiance"
	"github.com/arcbeam/photonmap/pkg/scene"
)

// tileSize matches the photon tracer's chunking philosophy: small enough
// that one slow tile doesn't starve the others near the end of a render.
const tileSize = 32

// gamma is the display gamma applied to the averaged radiance, with no
// tonemapping step before it (spec carries no
// opinion on this; the teacher's raytracer.go always gamma-corrects at 2.0
// before quantizing to 8-bit output).
const gamma = 2.0

// TileRenderer renders a full image by running the radiance estimator
// samplesPerPixel times per pixel and averaging.
type TileRenderer struct {
	Scene           *scene.Scene
	Camera          *scene.Camera
	Estimator       *radiance.Estimator
	Width, Height   int
	SamplesPerPixel int
}

// Render produces the final image, splitting it into tiles and running
// one errgroup goroutine per tile. No limit is set on the group, so all
// tiles are started at once; the concurrency is not bounded by a worker
// count the way pkg/photon.Tracer's emission work is.
func (r *TileRenderer) Render(ctx context.Context, seed uint64) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))

	type tile struct{ x0, y0, x1, y1 int }
	var tiles []tile
	for y := 0; y < r.Height; y += tileSize {
		for x := 0; x < r.Width; x += tileSize {
			tiles = append(tiles, tile{x, y, min(x+tileSize, r.Width), min(y+tileSize, r.Height)})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for idx, t := range tiles {
		idx, t := idx, t
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(idx)+1))
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			r.renderTile(img, t.x0, t.y0, t.x1, t.y1, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *TileRenderer) renderTile(img *image.RGBA, x0, y0, x1, y1 int, rng *rand.Rand) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			var sum pmmath.Vec3
			for s := 0; s < r.SamplesPerPixel; s++ {
				u := (float64(x) + rng.Float64()) / float64(r.Width)
				v := 1 - (float64(y)+rng.Float64())/float64(r.Height)
				ray := r.Camera.GetRay(u, v)
				sum = sum.Add(r.Estimator.SampleRay(r.Scene, rng, ray))
			}
			avg := sum.Multiply(1 / float64(r.SamplesPerPixel))
			img.Set(x, y, vec3ToColor(avg))
		}
	}
}

// vec3ToColor converts a radiance estimate to RGBA with clamping and
// gamma correction, the final step of the render loop (teacher's
// raytracer.go vec3ToColor).
func vec3ToColor(c pmmath.Vec3) color.RGBA {
	c = c.GammaCorrect(gamma).Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
