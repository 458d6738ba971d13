package mdparticle

import "github.com/pthm-cable/mdsim/vecutil"

// TypeDesc holds the raw physical parameters of a particle type plus the
// quantities derived once from a (Δt, g) environment snapshot at startup.
// Recomputing DtHalfM/DtDtHalfM per step would be wasted work since Δt and
// mass never change over the run.
type TypeDesc struct {
	Mass    float64
	Sigma   float64
	Epsilon float64

	// Membrane parameters; zero for non-membrane types.
	Stiffness      float64 // k
	RestLength     float64 // r0
	DiagRestLength float64 // r1 = r0 * sqrt(2)
	ForceCutoff    float64 // c, squared-distance cutoff for the repulsive branch

	Gravity vecutil.Vec3 // G

	// Precomputed integration factors.
	DtHalfM   float64 // Δt/(2m), velocity integration factor
	DtDtHalfM float64 // Δt²/(2m), position integration factor
}

// Dt recovers Δt from the precomputed DtHalfM factor (Δt/(2m)) and mass,
// since TypeDesc stores only the derived integration factors.
func (td TypeDesc) Dt() float64 {
	return td.DtHalfM * 2 * td.Mass
}

// NewTypeDesc builds a TypeDesc from raw parameters and the environment's
// Δt, deriving the integration factors once.
func NewTypeDesc(mass, sigma, epsilon, stiffness, restLength float64, forceCutoff float64, gravity vecutil.Vec3, dt float64) TypeDesc {
	return TypeDesc{
		Mass:           mass,
		Sigma:          sigma,
		Epsilon:        epsilon,
		Stiffness:      stiffness,
		RestLength:     restLength,
		DiagRestLength: restLength * sqrt2,
		ForceCutoff:    forceCutoff,
		Gravity:        gravity,
		DtHalfM:        dt / (2 * mass),
		DtDtHalfM:      dt * dt / (2 * mass),
	}
}

const sqrt2 = 1.4142135623730951
