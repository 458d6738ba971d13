// Package mdboundary implements the per-face boundary conditions of spec
// §4.4: reflective, ghost, periodic, outflow, and no-op boundaries, each
// exposing a post-position and a post-force correction applied to one
// particle at a time.
package mdboundary

import (
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// Axis identifies a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Side identifies which of a domain axis's two faces a boundary governs.
type Side int

const (
	SideNear Side = iota // the plane at position 0
	SideFar              // the plane at position D_axis
)

// ForceEvaluator is the subset of mdforce.Calculator the ghost boundary
// needs: the pure force law, independent of the container it is bound to.
type ForceEvaluator interface {
	ForceAbsFromDistSquared(d2 float64, t1, t2 int) float64
}

// Boundary is the Boundary trait of spec §4.4.
type Boundary interface {
	// PostX corrects one particle's position (and possibly velocity) after
	// position integration.
	PostX(p *mdparticle.Particle)
	// PostF corrects one particle's force after pair-force accumulation.
	PostF(p *mdparticle.Particle, calc ForceEvaluator)
	// RequiresOutflow reports whether this boundary marks the container for
	// outflow culling (only OutflowBoundary does).
	RequiresOutflow() bool
}

// face holds the axis, side, and plane position shared by every boundary
// variant.
type face struct {
	axis  Axis
	side  Side
	plane float64 // 0 for SideNear, D_axis for SideFar
}

func newFace(axis Axis, side Side, domain vecutil.Vec3) face {
	f := face{axis: axis, side: side}
	if side == SideFar {
		f.plane = domain[axis]
	}
	return f
}

// NoBoundary is the INF variant: both operations are no-ops.
type NoBoundary struct{}

func (NoBoundary) PostX(*mdparticle.Particle)                    {}
func (NoBoundary) PostF(*mdparticle.Particle, ForceEvaluator)     {}
func (NoBoundary) RequiresOutflow() bool                          { return false }

// HardBoundary reflects a particle's position about the plane and negates
// the normal velocity component when the particle crosses it.
type HardBoundary struct{ face }

// NewHardBoundary returns a reflective boundary for the given face.
func NewHardBoundary(axis Axis, side Side, domain vecutil.Vec3) *HardBoundary {
	return &HardBoundary{newFace(axis, side, domain)}
}

func (b *HardBoundary) PostX(p *mdparticle.Particle) {
	a := int(b.axis)
	switch b.side {
	case SideNear:
		if p.Pos[a] < b.plane {
			p.Pos[a] = 2*b.plane - p.Pos[a]
			p.Vel[a] = -p.Vel[a]
		}
	case SideFar:
		if p.Pos[a] > b.plane {
			p.Pos[a] = 2*b.plane - p.Pos[a]
			p.Vel[a] = -p.Vel[a]
		}
	}
}

func (b *HardBoundary) PostF(*mdparticle.Particle, ForceEvaluator) {}
func (b *HardBoundary) RequiresOutflow() bool                     { return false }

// GhostBoundary adds a repulsive LJ force against a mirror image of the
// particle when it comes within the LJ equilibrium distance (halved) of
// the plane. It needs each type's sigma to compute that threshold.
type GhostBoundary struct {
	face
	sigmaOf []float64 // indexed by particle type
}

// NewGhostBoundary returns a ghost-image boundary for the given face. sigma
// is indexed by particle type, mirroring the container's TypeDesc table.
func NewGhostBoundary(axis Axis, side Side, domain vecutil.Vec3, sigma []float64) *GhostBoundary {
	return &GhostBoundary{face: newFace(axis, side, domain), sigmaOf: sigma}
}

func (b *GhostBoundary) PostX(*mdparticle.Particle) {}

func (b *GhostBoundary) PostF(p *mdparticle.Particle, calc ForceEvaluator) {
	a := int(b.axis)
	var distToPlane float64
	var outwardSign float64 // sign of (mirror.pos[a] - p.pos[a])
	switch b.side {
	case SideNear:
		distToPlane = p.Pos[a] - b.plane
		outwardSign = -1
	case SideFar:
		distToPlane = b.plane - p.Pos[a]
		outwardSign = 1
	}
	if distToPlane < 0 {
		return
	}

	// Equilibrium distance for a same-type pair is sigma*2^(1/6); the ghost
	// only engages within half of that, i.e. when the mirror image (at
	// twice the distance to the plane) would already be in the repulsive
	// core.
	threshold := b.sigmaOf[p.Type] * rootTwoSixth / 2
	if distToPlane >= threshold {
		return
	}

	delta := outwardSign * 2 * distToPlane
	d2 := delta * delta
	fAbs := calc.ForceAbsFromDistSquared(d2, p.Type, p.Type)
	p.F[a] += fAbs * delta
}

func (b *GhostBoundary) RequiresOutflow() bool { return false }

const rootTwoSixth = 1.122462048309373 // 2^(1/6)

// PeriodicBoundary shifts a particle's position by the domain size when it
// crosses the plane, bringing it back into [0, D). The corresponding
// cross-boundary pair forces are supplied separately by the cell list's
// periodic-wrap enumerators.
type PeriodicBoundary struct {
	face
	domainSize float64
}

// NewPeriodicBoundary returns a periodic boundary for the given face.
func NewPeriodicBoundary(axis Axis, side Side, domain vecutil.Vec3) *PeriodicBoundary {
	return &PeriodicBoundary{face: newFace(axis, side, domain), domainSize: domain[axis]}
}

func (b *PeriodicBoundary) PostX(p *mdparticle.Particle) {
	a := int(b.axis)
	switch b.side {
	case SideNear:
		if p.Pos[a] < 0 {
			p.Pos[a] += b.domainSize
		}
	case SideFar:
		if p.Pos[a] >= b.domainSize {
			p.Pos[a] -= b.domainSize
		}
	}
}

func (b *PeriodicBoundary) PostF(*mdparticle.Particle, ForceEvaluator) {}
func (b *PeriodicBoundary) RequiresOutflow() bool                     { return false }

// OutflowBoundary marks the container for culling; it performs no
// per-particle correction itself.
type OutflowBoundary struct{ face }

// NewOutflowBoundary returns an outflow boundary for the given face.
func NewOutflowBoundary(axis Axis, side Side, domain vecutil.Vec3) *OutflowBoundary {
	return &OutflowBoundary{newFace(axis, side, domain)}
}

func (b *OutflowBoundary) PostX(*mdparticle.Particle)                { }
func (b *OutflowBoundary) PostF(*mdparticle.Particle, ForceEvaluator) { }
func (b *OutflowBoundary) RequiresOutflow() bool                      { return true }
