package mdforce

import (
	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// LJCalculator implements the truncated Lennard-Jones pair force (spec
// §4.3). The container's cutoff radius (baked into its CellList, where
// applicable) defines the truncation; beyond it IteratePairs never invokes
// the pair callback at all.
type LJCalculator struct {
	base
}

// NewLJCalculator returns a calculator applying the LJ force law over c.
func NewLJCalculator(c mdcell.Container) *LJCalculator {
	return &LJCalculator{base{container: c}}
}

// ForceAbsFromDistSquared computes the signed LJ force magnitude:
// f_abs = (24ε/d²)·t6·(1 - 2·t6), with t2 = σ²/d², t6 = t2³ (see
// mdparticle.TypePairDesc for the sign convention).
func (l *LJCalculator) ForceAbsFromDistSquared(d2 float64, t1, t2Type int) float64 {
	return ljForceAbs(l.container.TypePairs().Get(t1, t2Type), d2)
}

// ForceBetween returns the vector force on pi from pj at squared distance d2,
// along the minimum-image displacement pj.Pos+shift-pi.Pos.
func (l *LJCalculator) ForceBetween(pi, pj *mdparticle.Particle, d2 float64, shift vecutil.Vec3) vecutil.Vec3 {
	fAbs := l.ForceAbsFromDistSquared(d2, pi.Type, pj.Type)
	return pj.Pos.Add(shift).Sub(pi.Pos).Scale(fAbs)
}

// CalculateF enumerates local and periodic-image pairs and accumulates
// forces, applying Newton's third law: the force on pi is added, and its
// exact negation on pj.
func (l *LJCalculator) CalculateF() {
	l.accumulatePairs(l.ForceBetween)
}
