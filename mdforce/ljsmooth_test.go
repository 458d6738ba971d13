package mdforce

import (
	"math"
	"testing"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

func TestLJSmoothMatchesPlainLJBelowRLower(t *testing.T) {
	td := mdparticle.NewTypeDesc(1, 1, 5, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})

	smooth := NewLJSmoothCalculator(c, 2.0, 3.0)
	plain := NewLJCalculator(c)

	d2 := 1.0 // well inside rLower=2.0
	got := smooth.ForceAbsFromDistSquared(d2, 0, 0)
	want := plain.ForceAbsFromDistSquared(d2, 0, 0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("below rLower, smoothed force = %v, want exact plain-LJ match %v", got, want)
	}
}

func TestLJSmoothZeroBeyondCutoff(t *testing.T) {
	td := mdparticle.NewTypeDesc(1, 1, 5, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})
	smooth := NewLJSmoothCalculator(c, 2.0, 3.0)

	if got := smooth.ForceAbsFromDistSquared(9.01, 0, 0); got != 0 {
		t.Errorf("force beyond rCutoff = %v, want 0", got)
	}
}

func TestLJSmoothContinuousAtRCutoff(t *testing.T) {
	td := mdparticle.NewTypeDesc(1, 1, 5, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})
	smooth := NewLJSmoothCalculator(c, 2.0, 3.0)

	// Just inside rCutoff should be very close to zero (the smoothing
	// polynomial's (rc - d) factor vanishes at d = rc).
	d := 2.999999
	got := smooth.ForceAbsFromDistSquared(d*d, 0, 0)
	if math.Abs(got) > 1e-3 {
		t.Errorf("force just inside rCutoff = %v, want ~0", got)
	}
}
