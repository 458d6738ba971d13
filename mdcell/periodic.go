package mdcell

import (
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// WrapPairFunc receives a periodic-image pair: i and j are container
// indices of the original (unshifted) particles, and shift is the
// displacement that must be added to particles[j].Pos before computing the
// minimum-image delta used by the force law. The callback receives the
// original particles per spec §4.1; reconstructing the displacement from
// cell coordinates, rather than mutating positions, keeps CreateList's
// bucketed state untouched.
type WrapPairFunc func(i, j int, shift vecutil.Vec3)

// loopWrapDirection enumerates, for one direction vector in the canonical
// half-neighbourhood, every interior cell pair that only exists because of
// a periodic wrap: the neighbour cell for that direction would otherwise
// fall in the halo on every axis where the direction component is nonzero
// and that axis is marked periodic. Axes with a zero direction component
// place no boundary requirement (the pair is local on that axis).
//
// Because r_cutoff <= D_axis/2 is enforced at construction, a pair can be
// within cutoff both directly and through the wrap only when its separation
// along the axis is exactly D_axis/2 (possible only with two cells on that
// axis); otherwise no pair is emitted by both this and LoopCellPairs.
func (cl *CellList) loopWrapDirection(particles []mdparticle.Particle, dir [3]int, cb WrapPairFunc) {
	rc2 := cl.rCutoff * cl.rCutoff
	for _, axisDelta := range [][3]int{dir} {
		for i := 0; i < 3; i++ {
			if axisDelta[i] != 0 && !cl.periodic[i] {
				return
			}
		}
	}

	for x := 1; x <= cl.n[0]; x++ {
		for y := 1; y <= cl.n[1]; y++ {
			for z := 1; z <= cl.n[2]; z++ {
				coord := [3]int{x, y, z}
				wrapped := [3]int{x, y, z}
				shift := vecutil.Zero
				ok := true
				for axis, d := range dir {
					if d == 0 {
						continue
					}
					if d > 0 {
						if coord[axis] != cl.n[axis] {
							ok = false
							break
						}
						wrapped[axis] = 1
						shift[axis] = cl.domain[axis]
					} else {
						if coord[axis] != 1 {
							ok = false
							break
						}
						wrapped[axis] = cl.n[axis]
						shift[axis] = -cl.domain[axis]
					}
				}
				if !ok {
					continue
				}

				own := cl.CellOf(x, y, z)
				other := cl.CellOf(wrapped[0], wrapped[1], wrapped[2])
				for _, i := range own {
					for _, j := range other {
						pj := particles[j].Pos.Add(shift)
						d2 := particles[i].Pos.Sub(pj).NormSquared()
						if d2 <= rc2 {
							cb(i, j, shift)
						}
					}
				}
			}
		}
	}
}

// LoopPeriodicPairs runs every direction of the canonical half-
// neighbourhood whose nonzero axes are all marked periodic, covering every
// face, edge, and corner wrap combination in a single pass. The named
// enumerators below are thin, axis-filtered views over the same core for
// callers (and tests) that want one specific face/edge/corner.
func (cl *CellList) LoopPeriodicPairs(particles []mdparticle.Particle, cb WrapPairFunc) {
	for _, off := range neighbourOffsets {
		cl.loopWrapDirection(particles, off, cb)
	}
}

// LoopZPairs enumerates the z-axis face wrap.
func (cl *CellList) LoopZPairs(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{0, 0, 1}, cb)
}

// LoopXPairs enumerates the x-axis face wrap.
func (cl *CellList) LoopXPairs(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{1, 0, 0}, cb)
}

// LoopYPairs enumerates the y-axis face wrap.
func (cl *CellList) LoopYPairs(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{0, 1, 0}, cb)
}

// LoopXYEdge enumerates the x,y edge wrap (simultaneous wrap on both axes).
func (cl *CellList) LoopXYEdge(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{1, 1, 0}, cb)
	cl.loopWrapDirection(particles, [3]int{1, -1, 0}, cb)
}

// LoopXZEdge enumerates the x,z edge wrap.
func (cl *CellList) LoopXZEdge(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{1, 0, 1}, cb)
	cl.loopWrapDirection(particles, [3]int{1, 0, -1}, cb)
}

// LoopYZEdge enumerates the y,z edge wrap.
func (cl *CellList) LoopYZEdge(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{0, 1, 1}, cb)
	cl.loopWrapDirection(particles, [3]int{0, -1, 1}, cb)
}

// LoopCorner enumerates the 8-way corner wrap (simultaneous wrap on all
// three axes).
func (cl *CellList) LoopCorner(particles []mdparticle.Particle, cb WrapPairFunc) {
	cl.loopWrapDirection(particles, [3]int{1, 1, 1}, cb)
	cl.loopWrapDirection(particles, [3]int{1, -1, -1}, cb)
	cl.loopWrapDirection(particles, [3]int{-1, -1, 1}, cb)
	cl.loopWrapDirection(particles, [3]int{1, -1, 1}, cb)
}
