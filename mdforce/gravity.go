package mdforce

import (
	"math"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// GravityCalculator implements Newtonian pairwise attraction:
// f_abs = m_i*m_j/d^3, using the signed convention so that
// f_abs*(r_j-r_i) attracts i toward j.
type GravityCalculator struct {
	base
}

// NewGravityCalculator returns a calculator applying pairwise gravity.
func NewGravityCalculator(c mdcell.Container) *GravityCalculator {
	return &GravityCalculator{base{container: c}}
}

// ForceAbsFromDistSquared returns m_i*m_j/d^3.
func (g *GravityCalculator) ForceAbsFromDistSquared(d2 float64, t1, t2Type int) float64 {
	pd := g.container.TypePairs().Get(t1, t2Type)
	d := math.Sqrt(d2)
	return pd.Mass / (d2 * d)
}

// ForceBetween returns the vector force on pi from pj, along the
// minimum-image displacement pj.Pos+shift-pi.Pos.
func (g *GravityCalculator) ForceBetween(pi, pj *mdparticle.Particle, d2 float64, shift vecutil.Vec3) vecutil.Vec3 {
	fAbs := g.ForceAbsFromDistSquared(d2, pi.Type, pj.Type)
	return pj.Pos.Add(shift).Sub(pi.Pos).Scale(fAbs)
}

// CalculateF enumerates local and periodic-image pairs and accumulates
// forces under Newton's third law.
func (g *GravityCalculator) CalculateF() {
	g.accumulatePairs(g.ForceBetween)
}
