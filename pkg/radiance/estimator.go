// Package radiance implements Pass 2 of the integrator: the photon-map
// radiance estimate invoked once per camera ray, combining next-event
// estimation for the first analytic bounces with density estimation
// against the frozen photon maps Pass 1 produced.
package radiance

import (
	"math"
	"math/rand/v2"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/octree"
	"github.com/arcbeam/photonmap/pkg/photon"
	"github.com/arcbeam/photonmap/pkg/pmmath"
	"github.com/arcbeam/photonmap/pkg/transport"
)

// Logger is the structured-logging sink the estimator reports
// depth-exhaustion bias warnings through (spec 7). Its shape matches
// pkg/photon.Logger so a single zap wrapper in internal/telemetry
// satisfies both passes.
type Logger interface {
	Warnw(msg string, keysAndValues ...interface{})
}

// Metrics is the counter sink the estimator reports through (spec 4.J).
// Its shape is a subset of pkg/photon.Metrics so the same prometheus
// wrapper can satisfy both.
type Metrics interface {
	IncDepthExhaustion()
}

// minBounceDistanceFactor sets min_bounce_distance = factor * max_radius
// (spec 4.F step 7's "continue" condition).
const minBounceDistanceFactor = 5.0

// Estimator runs Pass 2 against a frozen set of photon maps (spec 4.F).
type Estimator struct {
	Config  photon.Config
	Maps    *photon.Maps
	Logger  Logger
	Metrics Metrics
}

// NewEstimator builds an Estimator from Pass 1's output maps and the same
// (already-validated) config the tracer ran with.
func NewEstimator(cfg photon.Config, maps *photon.Maps) *Estimator {
	return &Estimator{Config: cfg, Maps: maps}
}

// SampleRay is the entry point the outer render loop calls once per camera
// sample (spec 6 "a sampleRay(ray) -> radiance entry point").
func (e *Estimator) SampleRay(scene Scene, rng *rand.Rand, ray pmmath.Ray) pmmath.Vec3 {
	return e.sampleRay(scene, rng, ray)
}

func (e *Estimator) sampleRay(scene Scene, rng *rand.Rand, ray pmmath.Ray) pmmath.Vec3 {
	if ray.Depth >= e.Config.MaxRayDepth {
		if e.Logger != nil {
			e.Logger.Warnw("radiance path exhausted max depth, introducing bias", "maxRayDepth", e.Config.MaxRayDepth)
		}
		if e.Metrics != nil {
			e.Metrics.IncDepthExhaustion()
		}
		return pmmath.Vec3{}
	}

	in, ok := scene.Intersect(ray, rng)
	if !ok {
		return scene.SkyRadiance(ray)
	}

	survive := 1.0
	if ray.Depth > e.Config.MinRayDepth {
		survive = photon.RussianRouletteCap(ray.Depth, e.Config.MinRayDepth)
		if rng.Float64() < 1-survive {
			return pmmath.Vec3{}
		}
	}

	in.SelectType(rng.Float64())

	var emittance pmmath.Vec3
	if ray.Depth == 0 || ray.Specular {
		emittance = in.Material.Emittance()
	}

	if in.Type != material.Diffuse {
		return e.sampleNonDiffuse(scene, rng, in, ray, emittance, survive)
	}
	return e.sampleDiffuse(scene, rng, in, ray, emittance, survive)
}

// sampleNonDiffuse handles the REFLECT/REFRACT branch (spec 4.F step 6): a
// ray that arrived via a diffuse bounce only contributes its own
// emittance, since indirect light at diffuse surfaces is already accounted
// for through next-event estimation or the photon-map estimate; any other
// arrival spawns a continuation ray.
func (e *Estimator) sampleNonDiffuse(scene Scene, rng *rand.Rand, in *material.Interaction, ray pmmath.Ray, emittance pmmath.Vec3, survive float64) pmmath.Vec3 {
	if ray.Depth > 0 && !ray.Specular {
		return emittance.Multiply(1 / survive)
	}

	newRay, valid := e.bounce(in, ray, rng)
	if !valid {
		return emittance.Multiply(1 / survive)
	}
	newRay.Depth = ray.Depth + 1
	newRay.Specular = true

	brdf := in.EvaluateBRDF(newRay.Direction)
	incoming := e.sampleRay(scene, rng, newRay).MultiplyVec(brdf)
	return emittance.Add(incoming).Multiply(1 / survive)
}

// sampleDiffuse handles the DIFFUSE branch (spec 4.F step 7): either
// terminate with a photon-map density estimate, or continue with an
// analytic direct term plus a recursive indirect bounce.
func (e *Estimator) sampleDiffuse(scene Scene, rng *rand.Rand, in *material.Interaction, ray pmmath.Ray, emittance pmmath.Vec3, survive float64) pmmath.Vec3 {
	cfg := e.Config
	caustics := e.estimateCausticRadiance(in)

	continueBounce := !cfg.DirectVisualization &&
		(ray.Depth == 0 || ray.Specular || in.T >= minBounceDistanceFactor*cfg.MaxRadius)

	if !continueBounce {
		indirectHits := e.Maps.Indirect.KNN(in.Position, cfg.KNearestPhotons, cfg.MaxRadius)
		if len(indirectHits) < cfg.KNearestPhotons {
			continueBounce = true
		} else {
			directEstimate, fallback := e.estimateDirectFromMap(in)
			if fallback {
				continueBounce = true
			} else {
				indirectEstimate := estimateRadiance(indirectHits, in)
				total := emittance.Add(caustics).Add(directEstimate).Add(indirectEstimate)
				return total.Multiply(1 / survive)
			}
		}
	}

	direct := e.sampleDirect(scene, rng, in)
	if cfg.UseShadowPhotons && e.Maps.HasShadowPhotons(in.Position, cfg.MaxRadius) && e.Maps.Direct.RadiusEmpty(in.Position, cfg.MaxRadius) {
		direct = pmmath.Vec3{}
	}

	newRay := transport.ReflectDiffuse(in, rng.Float64(), rng.Float64())
	newRay.Depth = ray.Depth + 1
	newRay.Specular = false

	indirect := e.sampleRay(scene, rng, newRay).Multiply(math.Pi)
	brdf := in.EvaluateBRDF(newRay.Direction)

	total := direct.Add(indirect).MultiplyVec(brdf).Add(emittance).Add(caustics)
	return total.Multiply(1 / survive)
}

// estimateDirectFromMap attempts the photon-map termination path's direct
// term (spec 4.F step 7 "Else k-NN search the direct map..."). fallback is
// true when the caller must instead continue the analytic path because
// direct can't be reliably concluded zero.
func (e *Estimator) estimateDirectFromMap(in *material.Interaction) (estimate pmmath.Vec3, fallback bool) {
	directHits := e.Maps.Direct.KNN(in.Position, e.Config.KNearestPhotons, e.Config.MaxRadius)
	switch {
	case len(directHits) > 0:
		return estimateRadiance(directHits, in), false
	case e.Config.UseShadowPhotons && !e.Maps.HasShadowPhotons(in.Position, e.Config.MaxRadius):
		return pmmath.Vec3{}, true
	default:
		return pmmath.Vec3{}, false
	}
}

// bounce applies the ray transform for the branch SelectType chose,
// identical dispatch to pkg/photon.Tracer.bounce.
func (e *Estimator) bounce(in *material.Interaction, ray pmmath.Ray, rng *rand.Rand) (pmmath.Ray, bool) {
	if in.Type == material.Refract {
		return transport.RefractSpecular(in, ray.Direction)
	}
	return transport.ReflectSpecular(in, ray.Direction)
}

// sampleDirect evaluates next-event estimation (spec 4.F "when
// continuing"): sample a point on a uniformly-chosen emitter, test
// visibility, and return L*cos/pdf with no BRDF folded in — the caller
// applies the (direction-independent, for a Lambertian lobe) BRDF once to
// the direct+indirect sum.
func (e *Estimator) sampleDirect(scene Scene, rng *rand.Rand, in *material.Interaction) pmmath.Vec3 {
	emitters := scene.Emitters()
	if len(emitters) == 0 {
		return pmmath.Vec3{}
	}

	light := emitters[rng.IntN(len(emitters))]
	selectPDF := 1 / float64(len(emitters))

	p := light.Sample(rng.Float64(), rng.Float64())
	toLight := p.Subtract(in.Position)
	dist2 := toLight.LengthSquared()
	if dist2 < 1e-12 {
		return pmmath.Vec3{}
	}
	dist := math.Sqrt(dist2)
	wi := toLight.Multiply(1 / dist)

	cosSurface := wi.Dot(in.Normal)
	if cosSurface <= 0 {
		return pmmath.Vec3{}
	}

	lightNormal := light.Normal(p)
	cosLight := -wi.Dot(lightNormal)
	if cosLight <= 0 {
		return pmmath.Vec3{}
	}

	shadowOrigin := in.Position.Add(in.Normal.Multiply(transport.Bias))
	shadowRay := pmmath.NewRay(shadowOrigin, wi)
	if hit, ok := scene.Intersect(shadowRay, rng); ok && hit.T < dist-transport.Bias*10 {
		return pmmath.Vec3{}
	}

	solidAnglePDF := (selectPDF / light.Area()) * dist2 / cosLight
	if solidAnglePDF <= 0 {
		return pmmath.Vec3{}
	}

	emission := light.Material().Emittance()
	return emission.Multiply(cosSurface / solidAnglePDF)
}

// estimateRadiance is the density estimate estimateRadiance(interaction,
// photons) (spec 4.F): Lambert's 1/pi is already folded into DiffuseBRDF
// under this module's fixed "bare BRDF" convention (spec 4.F decision), so
// the sum here divides by r-squared alone.
func estimateRadiance(hits []octree.Hit[photon.Photon], in *material.Interaction) pmmath.Vec3 {
	if len(hits) == 0 {
		return pmmath.Vec3{}
	}
	rSq := hits[len(hits)-1].DistanceSq
	if rSq <= 0 {
		return pmmath.Vec3{}
	}

	var sum pmmath.Vec3
	for _, h := range hits {
		p := h.Point
		if p.Direction.Dot(in.Normal) >= 0 {
			continue
		}
		brdf := in.EvaluateBRDF(p.Direction)
		sum = sum.Add(p.Flux.MultiplyVec(brdf))
	}
	return sum.Multiply(1 / rSq)
}

// estimateCausticRadiance is the cone-filtered caustic estimate (spec
// 4.F): photons closer to the query point are weighted more heavily by a
// linear cone kernel, normalized by 3 (the kernel's integral for k=1).
func (e *Estimator) estimateCausticRadiance(in *material.Interaction) pmmath.Vec3 {
	hits := e.Maps.Caustic.KNN(in.Position, e.Config.KNearestPhotons, e.Config.MaxCausticRadius)
	if len(hits) == 0 {
		return pmmath.Vec3{}
	}
	rSq := hits[len(hits)-1].DistanceSq
	if rSq <= 0 {
		return pmmath.Vec3{}
	}

	var sum pmmath.Vec3
	for _, h := range hits {
		p := h.Point
		if p.Direction.Dot(in.Normal) >= 0 {
			continue
		}
		wp := math.Max(0, 1-math.Sqrt(h.DistanceSq/rSq))
		brdf := in.EvaluateBRDF(p.Direction)
		sum = sum.Add(p.Flux.MultiplyVec(brdf).Multiply(wp))
	}
	return sum.Multiply(3 / rSq)
}
