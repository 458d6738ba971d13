package mdsim

import (
	"testing"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

func TestTweezersActiveWindow(t *testing.T) {
	tw := NewTweezers([]int{0}, vecutil.Vec3{1, 0, 0}, 5.0)
	if !tw.Active(0) || !tw.Active(5) {
		t.Error("tweezers must be active at and before EndTime")
	}
	if tw.Active(5.01) {
		t.Error("tweezers must not be active past EndTime")
	}
}

func TestNilTweezersNeverActive(t *testing.T) {
	var tw *Tweezers
	if tw.Active(0) {
		t.Error("nil tweezers must report inactive")
	}
}

func TestTweezersApplyAddsForceToListedParticlesOnly(t *testing.T) {
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})
	c.Append(mdparticle.NewParticle(vecutil.Zero, vecutil.Zero, 0))
	c.Append(mdparticle.NewParticle(vecutil.Zero, vecutil.Zero, 0))
	c.At(0).F = vecutil.Vec3{1, 1, 1}

	tw := NewTweezers([]int{0}, vecutil.Vec3{5, 0, 0}, 1.0)
	tw.Apply(c)

	if want := (vecutil.Vec3{6, 1, 1}); c.At(0).F != want {
		t.Errorf("f0 = %v, want %v", c.At(0).F, want)
	}
	if c.At(1).F != vecutil.Zero {
		t.Errorf("f1 = %v, want untouched zero", c.At(1).F)
	}
}

func TestTweezersIndicesAreCopiedNotAliased(t *testing.T) {
	idx := []int{0, 1}
	tw := NewTweezers(idx, vecutil.Zero, 0)
	idx[0] = 99
	if tw.Indices[0] != 0 {
		t.Errorf("Tweezers.Indices aliases the caller's slice, got %v", tw.Indices)
	}
}
