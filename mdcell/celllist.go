// Package mdcell implements the linked-cell spatial index: a halo-padded 3D
// grid of cells that buckets particles by position and enumerates all
// interacting pairs in amortised O(N), honoring a cutoff radius. It also
// owns the precomputed adjacency and graph colouring used for race-free
// parallel pair accumulation, and the periodic-wrap enumerators used when a
// domain face wraps around.
package mdcell

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// ErrOutOfDomain is returned by CreateList when a particle's position maps
// outside the padded grid (beyond the one-cell halo layer); a position that
// maps into a halo cell is bucketed there. Under correct use of the surrounding
// Stepper (outflow culling and boundary post_x run before re-bucketing) this
// should never occur for particles still inside the domain; seeing it
// indicates a NaN position or a missing boundary condition.
var ErrOutOfDomain = errors.New("mdcell: particle out of domain")

// neighbourOffsets is the canonical forward half-neighbourhood of 13
// directions: for every nonzero (dx,dy,dz) in {-1,0,1}^3, exactly one of
// (dx,dy,dz) or its negation appears here. Used both for interior pair
// enumeration (so each unordered adjacent-cell pair is visited exactly
// once) and for periodic wrap enumeration (so each wrap pair is visited
// exactly once, from the boundary cell whose direction-to-neighbour would
// otherwise fall outside the grid).
var neighbourOffsets = [13][3]int{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	{1, 1, 0}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	{1, -1, 0}, {1, 0, -1}, {1, -1, -1},
	{-1, -1, 1}, {0, -1, 1}, {1, -1, 1},
}

// CellList is the 3D halo-padded grid described in spec §4.1.
type CellList struct {
	n        [3]int     // interior cell counts per axis
	side     [3]float64 // actual cell side lengths (>= rCutoff)
	domain   vecutil.Vec3
	rCutoff  float64
	periodic [3]bool

	cells [][]int // flat (n+2)^3 grid of particle indices

	adjacency  [][]int // cell index -> adjacent interior cell indices (26-neighbourhood)
	colourOf   []int   // cell index -> colour id (interior cells only; -1 for halo)
	colourCell [][]int // colour id -> list of interior cell indices of that colour
}

// New builds a CellList for a cutoff radius and a finite domain size.
// Interior counts are n_i = ceil(D_i/r_c); actual cell sides are D_i/n_i so
// side_i >= r_c, satisfying the invariant that any pair within r_c lies in
// the same cell or an immediately adjacent one.
//
// Per spec §9's open question on periodic tie-breaking, a configuration
// with r_cutoff > D_axis/2 on a periodic axis is rejected: such a domain
// would let a pair be within cutoff both directly and via wrap, and the
// source implementation is known to double-count that case.
func New(rCutoff float64, domain vecutil.Vec3, periodic [3]bool) (*CellList, error) {
	if rCutoff <= 0 || math.IsNaN(rCutoff) || math.IsInf(rCutoff, 0) {
		return nil, fmt.Errorf("mdcell: invalid cutoff radius %v", rCutoff)
	}
	cl := &CellList{rCutoff: rCutoff, domain: domain, periodic: periodic}
	for i := 0; i < 3; i++ {
		if domain[i] <= 0 {
			return nil, fmt.Errorf("mdcell: non-positive domain size on axis %d", i)
		}
		if periodic[i] && rCutoff > domain[i]/2 {
			return nil, fmt.Errorf("mdcell: cutoff %.6g exceeds half the domain %.6g on periodic axis %d", rCutoff, domain[i], i)
		}
		cl.n[i] = int(math.Ceil(domain[i] / rCutoff))
		if cl.n[i] < 1 {
			cl.n[i] = 1
		}
		cl.side[i] = domain[i] / float64(cl.n[i])
	}

	total := (cl.n[0] + 2) * (cl.n[1] + 2) * (cl.n[2] + 2)
	cl.cells = make([][]int, total)

	cl.buildAdjacencyAndColouring()
	return cl, nil
}

// dims returns the padded grid dimensions (n_i+2 per axis).
func (cl *CellList) dims() [3]int {
	return [3]int{cl.n[0] + 2, cl.n[1] + 2, cl.n[2] + 2}
}

// index returns the flat index for grid coordinates (x,y,z), per the
// formula in spec §3: z + y*(nz+2) + x*(ny+2)*(nz+2).
func (cl *CellList) index(x, y, z int) int {
	d := cl.dims()
	return z + y*d[2] + x*d[1]*d[2]
}

// inInterior reports whether grid coordinates fall in the interior range
// [1, n_i] on every axis.
func (cl *CellList) inInterior(x, y, z int) bool {
	return x >= 1 && x <= cl.n[0] && y >= 1 && y <= cl.n[1] && z >= 1 && z <= cl.n[2]
}

// inBounds reports whether grid coordinates fall anywhere in the padded
// grid, including the halo.
func (cl *CellList) inBounds(x, y, z int) bool {
	d := cl.dims()
	return x >= 0 && x < d[0] && y >= 0 && y < d[1] && z >= 0 && z < d[2]
}

// cellCoords maps a particle position to grid coordinates.
func (cl *CellList) cellCoords(pos vecutil.Vec3) (int, int, int) {
	x := int(math.Floor(pos[0]/cl.side[0])) + 1
	y := int(math.Floor(pos[1]/cl.side[1])) + 1
	z := int(math.Floor(pos[2]/cl.side[2])) + 1
	return x, y, z
}

// CreateList clears every cell's bucket and re-buckets every particle.
func (cl *CellList) CreateList(particles []mdparticle.Particle) error {
	for i := range cl.cells {
		cl.cells[i] = cl.cells[i][:0]
	}
	for idx := range particles {
		x, y, z := cl.cellCoords(particles[idx].Pos)
		if !cl.inBounds(x, y, z) {
			return fmt.Errorf("%w: particle %d at %v maps to cell (%d,%d,%d)", ErrOutOfDomain, idx, particles[idx].Pos, x, y, z)
		}
		ci := cl.index(x, y, z)
		cl.cells[ci] = append(cl.cells[ci], idx)
	}
	return nil
}

// CellOf returns the bucket of particle indices at the given padded grid
// coordinates. It is exported for boundary conditions and culling, which
// need to walk halo, boundary-ring, or interior cells directly.
func (cl *CellList) CellOf(x, y, z int) []int {
	return cl.cells[cl.index(x, y, z)]
}

// Dims exposes the interior cell counts.
func (cl *CellList) Dims() [3]int { return cl.n }

// Side exposes the actual cell side lengths.
func (cl *CellList) Side() [3]float64 { return cl.side }
