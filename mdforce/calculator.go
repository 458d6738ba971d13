// Package mdforce implements the pair-force calculators (L3): the
// Lennard-Jones, smoothed Lennard-Jones, membrane, and gravity force laws,
// each applied over a container's enumerated pairs, plus the shared
// position/velocity integration passes every calculator exposes.
package mdforce

import (
	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// Calculator is the Calculator trait of spec §4.3.
type Calculator interface {
	Container() mdcell.Container

	// CalculateX advances positions: pos += dt*vel + dt^2/(2m)*f.
	CalculateX()
	// CalculateOldF shifts f -> f_old and resets f to the type's gravity.
	CalculateOldF()
	// CalculateF enumerates pairs and accumulates pair forces into f.
	CalculateF()
	// CalculateV advances velocities: vel += dt/(2m)*(f_old+f).
	CalculateV()

	// ForceAbsFromDistSquared returns the signed scalar force magnitude for
	// a pair of the given types at squared distance d2.
	ForceAbsFromDistSquared(d2 float64, t1, t2 int) float64
	// ForceBetween returns the vector force law applied to pi from pj at
	// squared distance d2, using the minimum-image displacement pj.Pos+shift
	// - pi.Pos (force on pi, per the f_abs*(r_j-r_i) convention). shift is
	// vecutil.Zero for an ordinary, unwrapped pair.
	ForceBetween(pi, pj *mdparticle.Particle, d2 float64, shift vecutil.Vec3) vecutil.Vec3
}

// base implements the four integration passes shared by every calculator;
// each concrete calculator embeds it and supplies the pair kernel.
type base struct {
	container mdcell.Container
}

func (b *base) Container() mdcell.Container { return b.container }

// accumulatePairs drives IteratePairs for the container's local pairs and,
// when the container also implements mdcell.PeriodicPairIterator (every
// BoxContainer; its periodic pass emits nothing unless an axis is periodic),
// its periodic-image pairs too, applying fn and Newton's third law to every
// pair either produces. Without this second pass, a periodic container's
// cross-seam pairs (between cells on opposite faces, which LoopCellPairs
// never pairs) would never see a force computed at all.
func (b *base) accumulatePairs(fn func(pi, pj *mdparticle.Particle, d2 float64, shift vecutil.Vec3) vecutil.Vec3) {
	b.container.IteratePairs(func(i, j int, d2 float64) {
		pi := b.container.At(i)
		pj := b.container.At(j)
		f := fn(pi, pj, d2, vecutil.Zero)
		pi.F = pi.F.Add(f)
		pj.F = pj.F.Sub(f)
	})

	if periodic, ok := b.container.(mdcell.PeriodicPairIterator); ok {
		periodic.IteratePeriodicPairs(func(i, j int, shift vecutil.Vec3) {
			pi := b.container.At(i)
			pj := b.container.At(j)
			d2 := pj.Pos.Add(shift).Sub(pi.Pos).NormSquared()
			f := fn(pi, pj, d2, shift)
			pi.F = pi.F.Add(f)
			pj.F = pj.F.Sub(f)
		})
	}
}

// CalculateX advances every particle's position using its type's
// precomputed dt_dt_m factor.
func (b *base) CalculateX() {
	types := b.container.Types()
	n := b.container.Len()
	for i := 0; i < n; i++ {
		p := b.container.At(i)
		td := types[p.Type]
		p.Pos = p.Pos.AddScaled(p.Vel, td.Dt()).AddScaled(p.F, td.DtDtHalfM)
	}
}

// CalculateOldF rotates f -> f_old and resets f to the type's gravity
// vector so gravity accumulates implicitly on every subsequent pair pass.
func (b *base) CalculateOldF() {
	types := b.container.Types()
	n := b.container.Len()
	for i := 0; i < n; i++ {
		p := b.container.At(i)
		p.FOld = p.F
		p.F = types[p.Type].Gravity
	}
}

// CalculateV advances velocity using dt_m (Δt/2m).
func (b *base) CalculateV() {
	types := b.container.Types()
	n := b.container.Len()
	for i := 0; i < n; i++ {
		p := b.container.At(i)
		td := types[p.Type]
		p.Vel = p.Vel.AddScaled(p.FOld.Add(p.F), td.DtHalfM)
	}
}

// ljForceAbs is the unsmoothed Lennard-Jones scalar force law shared by
// LJCalculator, LJSmoothCalculator's inner branch, and MolCalculator's
// non-bonded and repulsive-only branches.
func ljForceAbs(pd mdparticle.TypePairDesc, d2 float64) float64 {
	t2 := pd.SigmaSquared / d2
	t6 := t2 * t2 * t2
	return (pd.ScaledEpsilon / d2) * t6 * (1 - 2*t6)
}
