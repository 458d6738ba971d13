package mdcell

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/mdsim/mdparticle"
)

// PairFunc receives the container indices of an interacting pair and their
// squared distance, already confirmed <= r_cutoff^2.
type PairFunc func(i, j int, distSq float64)

// LoopCellPairs enumerates every interior cell's intra-cell pairs and its
// forward half-neighbourhood pairs (spec §4.1), invoking cb only when the
// squared distance is within cutoff. Halo cells are visited only as
// neighbours, never as the originating cell, so halo particles contribute
// to forces on interior particles but never receive forces themselves.
func (cl *CellList) LoopCellPairs(particles []mdparticle.Particle, cb PairFunc) {
	rc2 := cl.rCutoff * cl.rCutoff
	for x := 1; x <= cl.n[0]; x++ {
		for y := 1; y <= cl.n[1]; y++ {
			for z := 1; z <= cl.n[2]; z++ {
				own := cl.CellOf(x, y, z)
				cl.emitIntraCell(particles, own, cb, rc2)
				for _, off := range neighbourOffsets {
					nx, ny, nz := x+off[0], y+off[1], z+off[2]
					if !cl.inBounds(nx, ny, nz) {
						continue
					}
					cl.emitInterCell(particles, own, cl.CellOf(nx, ny, nz), cb, rc2)
				}
			}
		}
	}
}

func (cl *CellList) emitIntraCell(particles []mdparticle.Particle, cell []int, cb PairFunc, rc2 float64) {
	for a := 0; a < len(cell); a++ {
		for b := a + 1; b < len(cell); b++ {
			i, j := cell[a], cell[b]
			d2 := particles[i].Pos.Sub(particles[j].Pos).NormSquared()
			if d2 <= rc2 {
				cb(i, j, d2)
			}
		}
	}
}

func (cl *CellList) emitInterCell(particles []mdparticle.Particle, cellA, cellB []int, cb PairFunc, rc2 float64) {
	for _, i := range cellA {
		for _, j := range cellB {
			d2 := particles[i].Pos.Sub(particles[j].Pos).NormSquared()
			if d2 <= rc2 {
				cb(i, j, d2)
			}
		}
	}
}

// buildAdjacencyAndColouring computes the interior-cell adjacency list (two
// cells adjacent iff their grid coordinates differ by at most 1 on every
// axis), its squared adjacency (two-hop reachability), and a greedy
// colouring of that squared adjacency. Cells of the same colour are
// more than 2 cells apart on at least one axis, so no two same-coloured cells share a
// neighbour, so concurrent pair accumulation within one colour never
// touches the same particle's force vector from two goroutines.
func (cl *CellList) buildAdjacencyAndColouring() {
	total := len(cl.cells)
	cl.colourOf = make([]int, total)
	for i := range cl.colourOf {
		cl.colourOf[i] = -1
	}

	type cellID struct{ x, y, z int }
	var interior []cellID
	cellIndex := make(map[cellID]int)
	for x := 1; x <= cl.n[0]; x++ {
		for y := 1; y <= cl.n[1]; y++ {
			for z := 1; z <= cl.n[2]; z++ {
				id := cellID{x, y, z}
				cellIndex[id] = cl.index(x, y, z)
				interior = append(interior, id)
			}
		}
	}

	adjacent := func(a, b cellID) bool {
		dx, dy, dz := a.x-b.x, a.y-b.y, a.z-b.z
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dz < 0 {
			dz = -dz
		}
		return dx <= 1 && dy <= 1 && dz <= 1 && (dx != 0 || dy != 0 || dz != 0)
	}

	adjacentOrSelf2 := func(a, b cellID) bool {
		dx, dy, dz := a.x-b.x, a.y-b.y, a.z-b.z
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dz < 0 {
			dz = -dz
		}
		return dx <= 2 && dy <= 2 && dz <= 2
	}

	cl.adjacency = make([][]int, total)
	for _, a := range interior {
		ai := cellIndex[a]
		for _, b := range interior {
			if a == b {
				continue
			}
			if adjacent(a, b) {
				cl.adjacency[ai] = append(cl.adjacency[ai], cellIndex[b])
			}
		}
	}

	// Squared adjacency: used only to build a colouring where same-colour
	// cells never share a neighbour (i.e. are more than 2 apart).
	sqAdjacent := make(map[cellID][]cellID)
	for _, a := range interior {
		for _, b := range interior {
			if a != b && adjacentOrSelf2(a, b) {
				sqAdjacent[a] = append(sqAdjacent[a], b)
			}
		}
	}

	colour := make(map[cellID]int)
	for _, id := range interior {
		used := map[int]bool{}
		for _, nb := range sqAdjacent[id] {
			if c, ok := colour[nb]; ok {
				used[c] = true
			}
		}
		c := 0
		for used[c] {
			c++
		}
		colour[id] = c
	}

	maxColour := -1
	for _, c := range colour {
		if c > maxColour {
			maxColour = c
		}
	}
	cl.colourCell = make([][]int, maxColour+1)
	for _, id := range interior {
		ci := cellIndex[id]
		c := colour[id]
		cl.colourOf[ci] = c
		cl.colourCell[c] = append(cl.colourCell[c], ci)
	}
}

// NumColours returns the number of colour groups produced by the greedy
// colouring, for tests and diagnostics.
func (cl *CellList) NumColours() int { return len(cl.colourCell) }

// LoopCellPairsParallel iterates colour groups sequentially and the cells
// within one colour group concurrently across a bounded worker pool,
// exactly the scheme spec §5 calls for: the colouring invariant guarantees
// that within one colour, no two workers ever write to the same particle's
// force accumulator. Each adjacent pair is still emitted only from the cell
// whose offset to the other appears in neighbourOffsets (the same owner
// convention LoopCellPairs uses), so no pair is visited twice.
func (cl *CellList) LoopCellPairsParallel(particles []mdparticle.Particle, cb PairFunc) {
	rc2 := cl.rCutoff * cl.rCutoff
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	for _, group := range cl.colourCell {
		n := len(group)
		if n == 0 {
			continue
		}
		chunk := (n + workers - 1) / workers
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := start + chunk
			if start >= n {
				break
			}
			if end > n {
				end = n
			}
			wg.Add(1)
			go func(cellIdxs []int) {
				defer wg.Done()
				for _, ci := range cellIdxs {
					x, y, z := cl.unindex(ci)
					own := cl.CellOf(x, y, z)
					cl.emitIntraCell(particles, own, cb, rc2)
					for _, off := range neighbourOffsets {
						nx, ny, nz := x+off[0], y+off[1], z+off[2]
						if !cl.inBounds(nx, ny, nz) {
							continue
						}
						cl.emitInterCell(particles, own, cl.CellOf(nx, ny, nz), cb, rc2)
					}
				}
			}(group[start:end])
		}
		wg.Wait()
	}
}

// unindex inverts index() for the padded grid.
func (cl *CellList) unindex(flat int) (int, int, int) {
	d := cl.dims()
	x := flat / (d[1] * d[2])
	rem := flat % (d[1] * d[2])
	y := rem / d[2]
	z := rem % d[2]
	return x, y, z
}

// LoopHalo visits only halo cells (the single-cell-deep ring outside the
// domain on every face).
func (cl *CellList) LoopHalo(visit func(cellIdx int)) {
	d := cl.dims()
	for x := 0; x < d[0]; x++ {
		for y := 0; y < d[1]; y++ {
			for z := 0; z < d[2]; z++ {
				if !cl.inInterior(x, y, z) {
					visit(cl.index(x, y, z))
				}
			}
		}
	}
}

// LoopBoundary visits only the single-cell-deep ring just inside the
// domain (interior cells adjacent to a halo cell on at least one axis).
func (cl *CellList) LoopBoundary(visit func(cellIdx int)) {
	for x := 1; x <= cl.n[0]; x++ {
		for y := 1; y <= cl.n[1]; y++ {
			for z := 1; z <= cl.n[2]; z++ {
				if x == 1 || x == cl.n[0] || y == 1 || y == cl.n[1] || z == 1 || z == cl.n[2] {
					visit(cl.index(x, y, z))
				}
			}
		}
	}
}

// LoopInner visits all interior cells, boundary or not.
func (cl *CellList) LoopInner(visit func(cellIdx int)) {
	for x := 1; x <= cl.n[0]; x++ {
		for y := 1; y <= cl.n[1]; y++ {
			for z := 1; z <= cl.n[2]; z++ {
				visit(cl.index(x, y, z))
			}
		}
	}
}
