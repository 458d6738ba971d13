package mdcell

import (
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// Container is the ParticleContainer trait of spec §2/§4.2: it owns the
// particle array, the domain size, and the type tables, and exposes pair
// iteration primitives independent of whether pairs come from a direct sum
// or a cell list.
type Container interface {
	Len() int
	At(i int) *mdparticle.Particle
	Resize(n int)
	Append(p mdparticle.Particle)

	Domain() vecutil.Vec3
	Types() []mdparticle.TypeDesc
	TypePairs() *mdparticle.TypePairTable

	// IteratePairs enumerates every interacting pair once, calling cb with
	// the squared distance already confirmed within cutoff (or, for a
	// direct sum, every i<j pair with no cutoff at all).
	IteratePairs(cb PairFunc)

	// UpdatePositions re-buckets the container after positions changed.
	UpdatePositions() error

	// RemoveParticlesOutOfDomain culls particles outside [0, D) on any
	// finite axis and reports how many were removed.
	RemoveParticlesOutOfDomain() int
}

// PeriodicPairIterator is implemented by containers that can also enumerate
// periodic-image pairs alongside their local ones (spec §4.1/§4.2): only a
// BoxContainer with at least one periodic axis has halo wrap pairs to give.
// A calculator checks for this interface and, if present, drives it in
// addition to IteratePairs so cross-seam forces under minimum-image
// convention are not silently dropped.
type PeriodicPairIterator interface {
	IteratePeriodicPairs(cb WrapPairFunc)
}

// base holds the state common to both container variants.
type base struct {
	particles []mdparticle.Particle
	domain    vecutil.Vec3
	types     []mdparticle.TypeDesc
	pairs     *mdparticle.TypePairTable
}

func newBase(domain vecutil.Vec3, types []mdparticle.TypeDesc) base {
	return base{domain: domain, types: types, pairs: mdparticle.NewTypePairTable(types)}
}

func (b *base) Len() int                          { return len(b.particles) }
func (b *base) At(i int) *mdparticle.Particle      { return &b.particles[i] }
func (b *base) Domain() vecutil.Vec3               { return b.domain }
func (b *base) Types() []mdparticle.TypeDesc       { return b.types }
func (b *base) TypePairs() *mdparticle.TypePairTable { return b.pairs }

func (b *base) Resize(n int) {
	if n <= len(b.particles) {
		b.particles = b.particles[:n]
		return
	}
	grown := make([]mdparticle.Particle, n)
	copy(grown, b.particles)
	b.particles = grown
}

func (b *base) Append(p mdparticle.Particle) {
	p.Index = len(b.particles)
	b.particles = append(b.particles, p)
}

// removeOutOfDomain implements the culling sweep shared by both variants:
// for each slot from low to high, while the particle at that slot is
// outside the domain, swap it with the last element and truncate. A
// (0,0,0) domain size means "no finite domain" and nothing is ever culled.
func (b *base) removeOutOfDomain() int {
	if b.domain.IsZero() {
		return 0
	}
	removed := 0
	i := 0
	for i < len(b.particles) {
		p := &b.particles[i]
		if outOfDomain(p.Pos, b.domain) {
			last := len(b.particles) - 1
			b.particles[i] = b.particles[last]
			b.particles[i].Index = i
			b.particles = b.particles[:last]
			removed++
			continue
		}
		i++
	}
	return removed
}

func outOfDomain(pos, domain vecutil.Vec3) bool {
	for a := 0; a < 3; a++ {
		if pos[a] < 0 || pos[a] >= domain[a] {
			return true
		}
	}
	return false
}

// DSContainer is the direct-sum container: O(N^2) pair iteration with no
// cutoff, intended for an infinite domain or very small N.
type DSContainer struct {
	base
}

// NewDSContainer builds a direct-sum container for the given types. Domain
// may be the zero vector to mean "no finite domain".
func NewDSContainer(domain vecutil.Vec3, types []mdparticle.TypeDesc) *DSContainer {
	return &DSContainer{base: newBase(domain, types)}
}

// IteratePairs is the naive double loop over all i<j, with no cutoff.
func (c *DSContainer) IteratePairs(cb PairFunc) {
	for i := 0; i < len(c.particles); i++ {
		for j := i + 1; j < len(c.particles); j++ {
			d2 := c.particles[i].Pos.Sub(c.particles[j].Pos).NormSquared()
			cb(i, j, d2)
		}
	}
}

// UpdatePositions is a no-op for the direct-sum container.
func (c *DSContainer) UpdatePositions() error { return nil }

// RemoveParticlesOutOfDomain culls particles outside the domain.
func (c *DSContainer) RemoveParticlesOutOfDomain() int { return c.removeOutOfDomain() }

// BoxContainer delegates pair iteration to a CellList.
type BoxContainer struct {
	base
	cells *CellList
}

// NewBoxContainer builds a cell-list-backed container.
func NewBoxContainer(domain vecutil.Vec3, types []mdparticle.TypeDesc, rCutoff float64, periodic [3]bool) (*BoxContainer, error) {
	cl, err := New(rCutoff, domain, periodic)
	if err != nil {
		return nil, err
	}
	return &BoxContainer{base: newBase(domain, types), cells: cl}, nil
}

// CellList exposes the underlying spatial index, e.g. for periodic wrap
// enumeration by a calculator or for boundary walks.
func (c *BoxContainer) CellList() *CellList { return c.cells }

// IteratePairs enumerates pairs via the cell list.
func (c *BoxContainer) IteratePairs(cb PairFunc) {
	c.cells.LoopCellPairs(c.particles, cb)
}

// IteratePairsParallel enumerates pairs via the coloured parallel scheme.
func (c *BoxContainer) IteratePairsParallel(cb PairFunc) {
	c.cells.LoopCellPairsParallel(c.particles, cb)
}

// IteratePeriodicPairs enumerates periodic-image pairs via the cell list's
// wrap enumerators, satisfying PeriodicPairIterator. A no-op when no axis
// is periodic (loopWrapDirection returns immediately on every direction).
func (c *BoxContainer) IteratePeriodicPairs(cb WrapPairFunc) {
	c.cells.LoopPeriodicPairs(c.particles, cb)
}

// UpdatePositions re-buckets the cell list.
func (c *BoxContainer) UpdatePositions() error {
	return c.cells.CreateList(c.particles)
}

// RemoveParticlesOutOfDomain culls particles outside the domain. Per spec
// §4.2 this must be followed by UpdatePositions.
func (c *BoxContainer) RemoveParticlesOutOfDomain() int { return c.removeOutOfDomain() }
