package photon

import (
	"github.com/arcbeam/photonmap/pkg/octree"
	"github.com/arcbeam/photonmap/pkg/pmmath"
)

// Maps is the frozen, read-only set of four photon maps the radiance
// estimator queries during Pass 2. The only way to obtain a Maps value
// is by freezing a builder once Pass 1's workers have joined, so the
// mutable-aggregation -> shared-immutable-query phase separation the
// spec requires (9. "Shared-mutable vs phase separation") holds by
// construction rather than by convention.
type Maps struct {
	Direct   *octree.LinearOctree[Photon]
	Indirect *octree.LinearOctree[Photon]
	Caustic  *octree.LinearOctree[Photon]
	Shadow   *octree.LinearOctree[ShadowPhoton]
}

// HasShadowPhotons reports whether any shadow photon lies within r of p,
// used by the radiance estimator to short-circuit direct lighting in
// occluded regions (spec 4.F).
func (m *Maps) HasShadowPhotons(p pmmath.Vec3, r float64) bool {
	return !m.Shadow.RadiusEmpty(p, r)
}

// Counts returns the photon count stored in each of the four maps, in
// direct/indirect/caustic/shadow order, for metrics and tests (spec 8,
// S9's "stored counter" cross-check).
func (m *Maps) Counts() (direct, indirect, caustic, shadow int) {
	return m.Direct.Len(), m.Indirect.Len(), m.Caustic.Len(), m.Shadow.Len()
}

// builder is the mutable, single-threaded aggregation target that Pass
// 1 drains the per-worker photon vectors into once every worker has
// joined; freeze converts it to the read-only Maps the estimator uses.
type builder struct {
	direct   *octree.Octree[Photon]
	indirect *octree.Octree[Photon]
	caustic  *octree.Octree[Photon]
	shadow   *octree.Octree[ShadowPhoton]
}

func newBuilder(bounds pmmath.AABB, maxLeaf int) *builder {
	return &builder{
		direct:   octree.New[Photon](bounds, maxLeaf),
		indirect: octree.New[Photon](bounds, maxLeaf),
		caustic:  octree.New[Photon](bounds, maxLeaf),
		shadow:   octree.New[ShadowPhoton](bounds, maxLeaf),
	}
}

// drain inserts buf's elements back-to-front, truncating buf as it
// goes, so peak memory never holds both the drained slice and its
// fully-inserted octree at once (spec 4.E "Aggregation").
func drain[T octree.Point](buf []T, into *octree.Octree[T]) {
	for len(buf) > 0 {
		last := len(buf) - 1
		into.Insert(buf[last])
		buf = buf[:last]
	}
}

func (b *builder) absorb(w *workerBuffers) {
	drain(w.direct, b.direct)
	drain(w.indirect, b.indirect)
	drain(w.caustic, b.caustic)
	drain(w.shadow, b.shadow)
}

func (b *builder) freeze() *Maps {
	return &Maps{
		Direct:   b.direct.Freeze(),
		Indirect: b.indirect.Freeze(),
		Caustic:  b.caustic.Freeze(),
		Shadow:   b.shadow.Freeze(),
	}
}
