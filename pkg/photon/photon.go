// Package photon implements Pass 1 of the two-pass photon-mapping
// integrator: particles are emitted from light sources, traced through
// the scene, and classified into direct/indirect/caustic/shadow maps
// according to their path history (spec 4.E). The maps themselves are
// octree.Octree/LinearOctree indices (pkg/octree) over the Photon and
// ShadowPhoton point types defined here.
package photon

import "github.com/arcbeam/photonmap/pkg/pmmath"

// Photon is a stored light-carrying particle: the position it was
// absorbed at, the flux it carried, and the direction it was travelling
// in (not reversed) at the moment of absorption.
type Photon struct {
	position  pmmath.Vec3
	Flux      pmmath.Vec3
	Direction pmmath.Vec3
}

// NewPhoton constructs a photon record for storage.
func NewPhoton(position, flux, direction pmmath.Vec3) Photon {
	return Photon{position: position, Flux: flux, Direction: direction}
}

// Position implements octree.Point.
func (p Photon) Position() pmmath.Vec3 { return p.position }

// ShadowPhoton marks a point on a diffusely-reflective surface that is
// occluded from at least one light along some sampled path.
type ShadowPhoton struct {
	position pmmath.Vec3
}

// NewShadowPhoton constructs a shadow-photon record for storage.
func NewShadowPhoton(position pmmath.Vec3) ShadowPhoton {
	return ShadowPhoton{position: position}
}

// Position implements octree.Point.
func (p ShadowPhoton) Position() pmmath.Vec3 { return p.position }
