// Package mdparticle defines the per-particle state and the per-type and
// per-type-pair precomputed constants the force calculators consume. It is
// the L1 layer of the engine: a pure data model with no knowledge of the
// spatial index or the integrator built on top of it.
package mdparticle

import "github.com/pthm-cable/mdsim/vecutil"

// NoNeighbour is the sentinel value stored in Particle.Neighbours for a
// vacant neighbour slot.
const NoNeighbour = -1

// MaxNeighbours is the fixed size of a membrane particle's neighbour list:
// four axial neighbours (slots 0-3) and four diagonal neighbours (slots 4-7).
const MaxNeighbours = 8

// Particle is a single point mass. It is exclusively owned by a
// ParticleContainer; the Index field mirrors the particle's own slot in the
// container's dense array so membrane neighbours can be looked up by plain
// integer indexing instead of a pointer, which would create ownership
// cycles between bonded particles.
type Particle struct {
	Pos  vecutil.Vec3
	Vel  vecutil.Vec3
	F    vecutil.Vec3 // current-step force
	FOld vecutil.Vec3 // previous-step force

	Type  int
	Index int

	// Neighbours holds container indices of bonded membrane neighbours.
	// Slots 0-3 are axial neighbours (rest length r0), slots 4-7 are
	// diagonal neighbours (rest length r1 = r0*sqrt2). NoNeighbour marks an
	// empty slot.
	Neighbours [MaxNeighbours]int

	InMolecule bool
}

// NewParticle returns a Particle at pos with velocity vel, no neighbours
// set and zero force state, ready for the container to assign an Index.
func NewParticle(pos, vel vecutil.Vec3, typ int) Particle {
	p := Particle{Pos: pos, Vel: vel, Type: typ}
	for i := range p.Neighbours {
		p.Neighbours[i] = NoNeighbour
	}
	return p
}

// HasAxialNeighbour reports whether slot index (0-3) holds a live neighbour.
func (p *Particle) HasAxialNeighbour(slot int) bool {
	return p.Neighbours[slot] != NoNeighbour
}

// IsAxialSlot reports whether neighbour slot i is an axial (as opposed to
// diagonal) bond slot.
func IsAxialSlot(i int) bool { return i >= 0 && i < 4 }

// IsDiagonalSlot reports whether neighbour slot i is a diagonal bond slot.
func IsDiagonalSlot(i int) bool { return i >= 4 && i < MaxNeighbours }
