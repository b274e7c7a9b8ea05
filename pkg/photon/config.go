package photon

import "fmt"

// EmissionsPerWorkUnit caps the size of one emission work chunk pushed
// onto the tracer's bounded job queue (spec 4.E "Emission work
// packaging", ≈100000 emissions per chunk).
const EmissionsPerWorkUnit = 100_000

// Config is the `photon_map` configuration block (spec 6): everything
// Pass 1 and Pass 2 need to budget emissions, size k-NN queries, and
// size the spatial index. internal/config binds this struct from the
// scene document; Validate reports the domain's own invariants so
// malformed values never reach the tracer loop regardless of which
// layer parsed them.
type Config struct {
	Emissions               int
	CausticFactor           float64
	MaxRadius               float64
	MaxCausticRadius        float64
	KNearestPhotons         int
	MaxPhotonsPerOctreeLeaf int
	DirectVisualization     bool
	UseShadowPhotons        bool

	// NumThreads, MaxRayDepth and MinRayDepth are the integrator-wide
	// parameters spec 6 lists as consumed from "Integrator" rather than
	// the photon_map block proper; they travel with the rest of this
	// config because Pass 1 and Pass 2 both need all of it together.
	NumThreads  int
	MaxRayDepth int
	MinRayDepth int
}

// Validate reports the first violated invariant, if any (spec 4.I).
func (c Config) Validate() error {
	switch {
	case c.Emissions <= 0:
		return fmt.Errorf("emissions must be > 0, got %d", c.Emissions)
	case c.CausticFactor < 1:
		return fmt.Errorf("caustic_factor must be >= 1, got %g", c.CausticFactor)
	case c.MaxRadius <= 0:
		return fmt.Errorf("max_radius must be > 0, got %g", c.MaxRadius)
	case c.MaxCausticRadius <= 0:
		return fmt.Errorf("max_caustic_radius must be > 0, got %g", c.MaxCausticRadius)
	case c.KNearestPhotons < 1:
		return fmt.Errorf("k_nearest_photons must be >= 1, got %d", c.KNearestPhotons)
	case c.MaxPhotonsPerOctreeLeaf < 1:
		return fmt.Errorf("max_photons_per_octree_leaf must be >= 1, got %d", c.MaxPhotonsPerOctreeLeaf)
	case c.NumThreads < 1:
		return fmt.Errorf("num_threads must be >= 1, got %d", c.NumThreads)
	case c.MaxRayDepth < 1:
		return fmt.Errorf("max_ray_depth must be >= 1, got %d", c.MaxRayDepth)
	case c.MinRayDepth < 0:
		return fmt.Errorf("min_ray_depth must be >= 0, got %d", c.MinRayDepth)
	default:
		return nil
	}
}
