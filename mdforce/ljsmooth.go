package mdforce

import (
	"math"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// LJSmoothCalculator adds an inner radius rLower < rCutoff: below rLower it
// is identical to the unsmoothed LJ force, above rCutoff it is zero, and in
// between a smoothing polynomial continuously joins the two (spec §4.3).
type LJSmoothCalculator struct {
	base
	rLower  float64
	rCutoff float64
}

// NewLJSmoothCalculator returns a smoothed-LJ calculator. rLower must be
// strictly less than rCutoff.
func NewLJSmoothCalculator(c mdcell.Container, rLower, rCutoff float64) *LJSmoothCalculator {
	return &LJSmoothCalculator{base: base{container: c}, rLower: rLower, rCutoff: rCutoff}
}

// ForceAbsFromDistSquared implements the three-branch smoothed LJ force.
func (l *LJSmoothCalculator) ForceAbsFromDistSquared(d2 float64, t1, t2Type int) float64 {
	rl2 := l.rLower * l.rLower
	rc2 := l.rCutoff * l.rCutoff
	if d2 <= rl2 {
		return ljForceAbs(l.container.TypePairs().Get(t1, t2Type), d2)
	}
	if d2 >= rc2 {
		return 0
	}

	pd := l.container.TypePairs().Get(t1, t2Type)
	sigma6 := pd.SigmaSquared * pd.SigmaSquared * pd.SigmaSquared

	d := math.Sqrt(d2)
	d6 := d2 * d2 * d2
	d7 := d6 * d
	d14 := d7 * d7

	rc := l.rCutoff
	rl := l.rLower
	rc2v := rc * rc
	denom := d14 * (rc - rl) * (rc - rl) * (rc - rl)

	bracket := rc2v*(2*sigma6-d6) +
		rc*(3*rl-d)*(d6-2*sigma6) +
		d*(5*rl*sigma6-2*rl*d6-3*sigma6*d+d7)

	// The closed form carries the opposite sign to ljForceAbs's positive
	// ScaledEpsilon convention: at d = rLower the bracket reduces to
	// (2σ⁶-d⁶)(rc-rl)², so negating it makes the two branches agree there.
	return -(pd.ScaledEpsilon * sigma6 / denom) * (rc - d) * bracket
}

// ForceBetween returns the vector force on pi from pj, along the
// minimum-image displacement pj.Pos+shift-pi.Pos.
func (l *LJSmoothCalculator) ForceBetween(pi, pj *mdparticle.Particle, d2 float64, shift vecutil.Vec3) vecutil.Vec3 {
	fAbs := l.ForceAbsFromDistSquared(d2, pi.Type, pj.Type)
	return pj.Pos.Add(shift).Sub(pi.Pos).Scale(fAbs)
}

// CalculateF enumerates local and periodic-image pairs and accumulates
// forces under Newton's third law.
func (l *LJSmoothCalculator) CalculateF() {
	l.accumulatePairs(l.ForceBetween)
}
