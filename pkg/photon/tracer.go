package photon

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arcbeam/photonmap/pkg/material"
	"github.com/arcbeam/photonmap/pkg/pmmath"
	"github.com/arcbeam/photonmap/pkg/transport"
)

// Logger is the structured-logging sink the tracer reports
// depth-exhaustion bias warnings through (spec 7). Satisfied by
// internal/telemetry's zap wrapper; nil-safe, so tracer tests never
// need to wire one up.
type Logger interface {
	Warnw(msg string, keysAndValues ...interface{})
}

// Metrics is the progress/counter sink the tracer reports through
// (spec 4.J). Satisfied by internal/telemetry's prometheus wrapper;
// nil-safe, so tracer tests never need a registry.
type Metrics interface {
	SetEmissionProgress(remaining, total int)
	AddPhotonsStored(mapName string, n int)
	IncDepthExhaustion()
}

// queueCapacity bounds the emission job queue's in-flight size (spec
// 4.G "a bounded MPMC job queue"): the feeder goroutine blocks once it
// is full instead of materializing every chunk up front.
const queueCapacity = 64

// Tracer runs Pass 1 of the integrator: emission budgeting, the bounded
// worker pool (spec 4.G), and map aggregation (spec 4.E).
type Tracer struct {
	Config  Config
	Logger  Logger
	Metrics Metrics

	// Seed fixes the tracer's RNG derivation for reproducible runs
	// (spec 8, S6: same seed + num_threads=1 -> bit-identical maps).
	// Left nil, Run derives a fresh seed from crypto/rand so
	// independent production runs differ (spec 5 "RNG... must use a
	// nondeterministic source").
	Seed *uint64
}

// NewTracer builds a Tracer for the given (already-validated) config.
func NewTracer(cfg Config) *Tracer {
	return &Tracer{Config: cfg}
}

type emissionChunk struct {
	emitterIdx int
	count      int
}

// workerBuffers are the thread-local photon vectors a single worker
// appends to during the emission phase (spec 5 "no shared-mutable
// state in inner loops").
type workerBuffers struct {
	direct, indirect, caustic []Photon
	shadow                    []ShadowPhoton
}

// Run executes Pass 1 against scene and returns the frozen photon maps.
func (t *Tracer) Run(ctx context.Context, scene Scene) (*Maps, error) {
	emitters := scene.Emitters()
	nPerEmitter, fluxPerEmitter := t.budget(emitters)
	chunks := packageWork(nPerEmitter)
	total := len(chunks)

	base := t.resolveSeed()
	shuffleRNG := rand.New(rand.NewPCG(base, math.MaxUint64))
	shuffleRNG.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })

	queue := make(chan emissionChunk, queueCapacity)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)
		for _, c := range chunks {
			select {
			case queue <- c:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var remaining int64 = int64(total)
	results := make(chan *workerBuffers, t.Config.NumThreads)

	for w := 0; w < t.Config.NumThreads; w++ {
		workerIdx := w
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(base, uint64(workerIdx)+1))
			buf := &workerBuffers{}
			for chunk := range queue {
				t.emit(scene, rng, emitters[chunk.emitterIdx], fluxPerEmitter[chunk.emitterIdx], chunk.count, buf)
				left := atomic.AddInt64(&remaining, -1)
				if t.Metrics != nil {
					t.Metrics.SetEmissionProgress(int(left), total)
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
			}
			results <- buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	bld := newBuilder(scene.BoundingBox(), t.Config.MaxPhotonsPerOctreeLeaf)
	for buf := range results {
		bld.absorb(buf)
	}

	maps := bld.freeze()
	if t.Metrics != nil {
		d, i, c, s := maps.Counts()
		t.Metrics.AddPhotonsStored("direct", d)
		t.Metrics.AddPhotonsStored("indirect", i)
		t.Metrics.AddPhotonsStored("caustic", c)
		t.Metrics.AddPhotonsStored("shadow", s)
	}
	return maps, nil
}

// resolveSeed returns the fixed Seed if set, otherwise a fresh
// nondeterministic one.
func (t *Tracer) resolveSeed() uint64 {
	if t.Seed != nil {
		return *t.Seed
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[:])
	}
	return uint64(time.Now().UnixNano())
}

// budget implements spec 4.E's emission budgeting: each emitter's
// share of the (caustic-factor-scaled) total emission count is
// proportional to its L1 flux norm, and its per-photon flux is that
// emitter's power divided by its own share. Scaling the total by
// caustic_factor before computing shares, rather than after, is this
// module's resolution of an otherwise-ambiguous ordering in the spec
// text (recorded in DESIGN.md): it is the only ordering under which
// the caustic map ends up denser without the caustic estimate needing
// a compensating division, since total expected flux per emitter stays
// Power() regardless of caustic_factor.
func (t *Tracer) budget(emitters []material.Emitter) (nPerEmitter []int, fluxPerEmitter []pmmath.Vec3) {
	n := len(emitters)
	nPerEmitter = make([]int, n)
	fluxPerEmitter = make([]pmmath.Vec3, n)
	if n == 0 {
		return nPerEmitter, fluxPerEmitter
	}

	powers := make([]pmmath.Vec3, n)
	var sumL1 float64
	for i, e := range emitters {
		powers[i] = e.Power()
		sumL1 += l1Norm(powers[i])
	}
	if sumL1 == 0 {
		return nPerEmitter, fluxPerEmitter
	}

	scaledTotal := math.Round(float64(t.Config.Emissions) * t.Config.CausticFactor)
	for i, p := range powers {
		share := int(math.Round(scaledTotal * l1Norm(p) / sumL1))
		if share < 1 {
			share = 1
		}
		nPerEmitter[i] = share
		fluxPerEmitter[i] = p.Multiply(1 / float64(share))
	}
	return nPerEmitter, fluxPerEmitter
}

func l1Norm(v pmmath.Vec3) float64 {
	return math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)
}

// packageWork splits each emitter's emission count into
// EmissionsPerWorkUnit-sized chunks (spec 4.E "Emission work
// packaging").
func packageWork(nPerEmitter []int) []emissionChunk {
	var chunks []emissionChunk
	for i, n := range nPerEmitter {
		for remaining := n; remaining > 0; {
			c := EmissionsPerWorkUnit
			if c > remaining {
				c = remaining
			}
			chunks = append(chunks, emissionChunk{emitterIdx: i, count: c})
			remaining -= c
		}
	}
	return chunks
}

// emit samples count emissions from a single emitter and traces each.
func (t *Tracer) emit(scene Scene, rng *rand.Rand, emitter material.Emitter, flux pmmath.Vec3, count int, buf *workerBuffers) {
	for i := 0; i < count; i++ {
		x := emitter.Sample(rng.Float64(), rng.Float64())
		n := emitter.Normal(x)
		d := pmmath.RandomCosineDirection(n, rng.Float64(), rng.Float64())
		x = x.Add(n.Multiply(transport.Bias))
		t.trace(scene, rng, pmmath.NewRay(x, d), flux, buf)
	}
}

// trace runs the per-bounce rule (spec 4.E) as an explicit loop rather
// than recursion (spec 9 "Deep recursion"): max_ray_depth defaults to
// 16 and is configurable, so the loop keeps stack use flat however deep
// a configuration allows paths to go.
func (t *Tracer) trace(scene Scene, rng *rand.Rand, ray pmmath.Ray, flux pmmath.Vec3, buf *workerBuffers) {
	for depth := 0; depth < t.Config.MaxRayDepth; depth++ {
		in, ok := scene.Intersect(ray, rng)
		if !ok {
			return
		}
		in.SelectType(rng.Float64())

		switch in.Type {
		case material.Diffuse:
			t.storeDiffuse(scene, rng, in, ray, flux, depth, buf)
		case material.Reflect:
			if t.Config.UseShadowPhotons && depth == 0 && rng.Float64() < 1/t.Config.CausticFactor {
				t.shadowScan(scene, rng, in.Position, in.Normal, ray.Direction, buf)
			}
		}

		newRay, valid := t.bounce(in, ray, rng)
		if !valid {
			return
		}

		brdf := in.EvaluateBRDF(newRay.Direction)
		if in.Type == material.Diffuse {
			brdf = brdf.Multiply(math.Pi)
		}

		newFlux := flux.MultiplyVec(brdf)
		survival := math.Min(RussianRouletteCap(depth, t.Config.MinRayDepth), safeRatio(newFlux.MaxComponent(), flux.MaxComponent()))
		if survival <= 0 || rng.Float64() >= survival {
			return
		}

		newRay.Depth = depth + 1
		newRay.Specular = in.Type != material.Diffuse
		ray, flux = newRay, newFlux.Multiply(1/survival)
	}

	if t.Logger != nil {
		t.Logger.Warnw("photon path exhausted max depth, introducing bias", "maxRayDepth", t.Config.MaxRayDepth)
	}
	if t.Metrics != nil {
		t.Metrics.IncDepthExhaustion()
	}
}

// storeDiffuse implements spec 4.E's per-bounce storage policy for a
// DIFFUSE hit.
func (t *Tracer) storeDiffuse(scene Scene, rng *rand.Rand, in *material.Interaction, ray pmmath.Ray, flux pmmath.Vec3, depth int, buf *workerBuffers) {
	cf := t.Config.CausticFactor
	switch {
	case depth == 0:
		if rng.Float64() < 1/cf {
			buf.direct = append(buf.direct, NewPhoton(in.Position, flux.Multiply(cf), ray.Direction))
			if t.Config.UseShadowPhotons {
				t.shadowScan(scene, rng, in.Position, in.Normal, ray.Direction, buf)
			}
		}
	case ray.Specular:
		buf.caustic = append(buf.caustic, NewPhoton(in.Position, flux, ray.Direction))
	default:
		if rng.Float64() < 1/cf {
			buf.indirect = append(buf.indirect, NewPhoton(in.Position, flux.Multiply(cf), ray.Direction))
		}
	}
}

// shadowScan pushes a probe ray through the surface at (origin,
// normal) along dir, marking every diffusely-reflective surface it
// meets with a shadow photon until it misses or exceeds max_ray_depth
// (spec 4.E "Shadow-photon scan"). The arriving normal is already
// flipped to face back toward the probing ray by Interaction's own
// construction invariant, so no extra flip is needed here.
func (t *Tracer) shadowScan(scene Scene, rng *rand.Rand, origin, normal, dir pmmath.Vec3, buf *workerBuffers) {
	pos := origin.Subtract(normal.Multiply(transport.Bias))
	for depth := 0; depth <= t.Config.MaxRayDepth; depth++ {
		probe := pmmath.NewRay(pos, dir)
		in, ok := scene.Intersect(probe, rng)
		if !ok {
			return
		}
		if in.Material.CanDiffuselyReflect() {
			buf.shadow = append(buf.shadow, NewShadowPhoton(in.Position))
		}
		pos = in.Position.Subtract(in.Normal.Multiply(transport.Bias))
		dir = probe.Direction
	}
}

// bounce applies the ray transform for the branch SelectType chose.
func (t *Tracer) bounce(in *material.Interaction, ray pmmath.Ray, rng *rand.Rand) (pmmath.Ray, bool) {
	switch in.Type {
	case material.Diffuse:
		return transport.ReflectDiffuse(in, rng.Float64(), rng.Float64()), true
	case material.Refract:
		return transport.RefractSpecular(in, ray.Direction)
	default:
		return transport.ReflectSpecular(in, ray.Direction)
	}
}

// RussianRouletteCap is the depth-dependent upper bound on survival
// probability (spec 4.E step 6). Exported so pkg/radiance's Pass-2
// absorption test (spec 4.F step 3, "mirrors tracer but inverse") can
// apply the identical depth cutoff instead of redefining it.
func RussianRouletteCap(depth, minDepth int) float64 {
	if depth > minDepth {
		return 0.9
	}
	return 1.0
}

func safeRatio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	r := a / b
	if r > 1 {
		return 1
	}
	return r
}
