package mdsim

import (
	"github.com/pthm-cable/mdsim/mdboundary"
	"github.com/pthm-cable/mdsim/mdforce"
)

// Faces names the six boundary slots of a Stepper in the fixed order spec
// §4.4/§4.5 iterates them: x-near, x-far, y-near, y-far, z-near, z-far.
type Faces struct {
	XNear, XFar mdboundary.Boundary
	YNear, YFar mdboundary.Boundary
	ZNear, ZFar mdboundary.Boundary
}

func (f Faces) all() [6]mdboundary.Boundary {
	return [6]mdboundary.Boundary{f.XNear, f.XFar, f.YNear, f.YFar, f.ZNear, f.ZFar}
}

// DiffusionLogger receives a kinetic snapshot once per step, for a running
// mean-squared-displacement trace (spec §4.8). Optional: a Stepper with a
// nil logger simply skips the call.
type DiffusionLogger interface {
	LogStep(t float64, calc mdforce.Calculator)
}

// Stepper owns the fixed sequence that advances one Störmer-Verlet step
// (spec §4.5): it is the only layer that knows the full step order and that
// holds the boundaries, the optional tweezers, and the optional diffusion
// logger for the run.
type Stepper struct {
	Boundaries Faces
	Tweezers   *Tweezers
	Diffusion  DiffusionLogger
}

// NewStepper returns a Stepper over the six named boundary faces.
func NewStepper(boundaries Faces) *Stepper {
	return &Stepper{Boundaries: boundaries}
}

// Step advances the container owned by calc by one Δt, at simulation time t
// (used to decide whether tweezers are still active and to stamp the
// diffusion logger). Panics with a FatalError if a particle's post-step
// position rebucket fails (DomainError, spec §9).
func (s *Stepper) Step(calc mdforce.Calculator, t float64) {
	container := calc.Container()
	faces := s.Boundaries.all()

	// 1. Position half-step.
	calc.CalculateX()

	// 2. Per-particle boundary position correction (reflection/periodic
	// wrap), in fixed face order.
	n := container.Len()
	for i := 0; i < n; i++ {
		p := container.At(i)
		for _, b := range faces {
			if b != nil {
				b.PostX(p)
			}
		}
	}

	// 3. Cull particles that still ended up outside a finite, non-periodic
	// domain (outflow boundaries), then rebucket the spatial index.
	outflow := false
	for _, b := range faces {
		if b != nil && b.RequiresOutflow() {
			outflow = true
			break
		}
	}
	if outflow {
		container.RemoveParticlesOutOfDomain()
	}
	if err := container.UpdatePositions(); err != nil {
		fatal(DomainError, err)
	}

	// 4. Rotate f -> f_old, reset f to gravity.
	calc.CalculateOldF()

	// 5. Accumulate pair forces over the refreshed spatial index.
	calc.CalculateF()

	// 6. Ghost-boundary force correction, in fixed face order.
	n = container.Len()
	for i := 0; i < n; i++ {
		p := container.At(i)
		for _, b := range faces {
			if b != nil {
				b.PostF(p, calc)
			}
		}
	}

	// 7. External tweezer force injection, while active.
	if s.Tweezers.Active(t) {
		s.Tweezers.Apply(container)
	}

	// 8. Velocity half-step using f_old and the freshly accumulated f.
	calc.CalculateV()

	// 9. Optional diffusion trace for this step.
	if s.Diffusion != nil {
		s.Diffusion.LogStep(t, calc)
	}
}
