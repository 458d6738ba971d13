package mdsim

import (
	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/vecutil"
)

// Tweezers injects a constant force into a fixed set of particles for as
// long as the simulation time has not yet passed EndTime (spec §4.7).
type Tweezers struct {
	Indices []int
	Force   vecutil.Vec3
	EndTime float64
}

// NewTweezers returns a Tweezers acting on the given particle indices.
func NewTweezers(indices []int, force vecutil.Vec3, endTime float64) *Tweezers {
	cp := make([]int, len(indices))
	copy(cp, indices)
	return &Tweezers{Indices: cp, Force: force, EndTime: endTime}
}

// Active reports whether the tweezers should apply at simulation time t.
func (t *Tweezers) Active(currentT float64) bool {
	return t != nil && currentT <= t.EndTime
}

// Apply adds Force to every listed particle's current force.
func (t *Tweezers) Apply(container mdcell.Container) {
	for _, idx := range t.Indices {
		p := container.At(idx)
		p.F = p.F.Add(t.Force)
	}
}
