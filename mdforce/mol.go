package mdforce

import (
	"math"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// MolCalculator implements the bonded-membrane force law of spec §4.3: same
// type, same molecule pairs use harmonic springs to an axial or diagonal
// rest length (or a short-range repulsive LJ kernel if neither bonded slot
// matches and the pair is within the membrane's force cutoff); every other
// pair uses the plain Lennard-Jones law.
type MolCalculator struct {
	base
}

// NewMolCalculator returns a calculator applying the membrane force law.
func NewMolCalculator(c mdcell.Container) *MolCalculator {
	return &MolCalculator{base{container: c}}
}

// ForceAbsFromDistSquared returns the non-bonded (LJ) scalar force; the
// bonded branches need the particles themselves (to inspect neighbour
// slots), so they are only reachable through ForceBetween/CalculateF.
func (m *MolCalculator) ForceAbsFromDistSquared(d2 float64, t1, t2Type int) float64 {
	return ljForceAbs(m.container.TypePairs().Get(t1, t2Type), d2)
}

// ForceBetween returns the vector force on pi from pj, dispatching on the
// membrane bond structure between the two particles, along the
// minimum-image displacement pj.Pos+shift-pi.Pos.
func (m *MolCalculator) ForceBetween(pi, pj *mdparticle.Particle, d2 float64, shift vecutil.Vec3) vecutil.Vec3 {
	fAbs := m.forceAbs(pi, pj, d2)
	return pj.Pos.Add(shift).Sub(pi.Pos).Scale(fAbs)
}

func (m *MolCalculator) forceAbs(pi, pj *mdparticle.Particle, d2 float64) float64 {
	if pi.Type != pj.Type || !pi.InMolecule || !pj.InMolecule {
		return ljForceAbs(m.container.TypePairs().Get(pi.Type, pj.Type), d2)
	}

	td := m.container.Types()[pi.Type]
	d := math.Sqrt(d2)

	for slot := 0; slot < 4; slot++ {
		if pi.Neighbours[slot] == pj.Index {
			return td.Stiffness * (d - td.RestLength) / d
		}
	}
	for slot := 4; slot < mdparticle.MaxNeighbours; slot++ {
		if pi.Neighbours[slot] == pj.Index {
			return td.Stiffness * (d - td.DiagRestLength) / d
		}
	}
	if d2 <= td.ForceCutoff {
		return ljForceAbs(m.container.TypePairs().Get(pi.Type, pj.Type), d2)
	}
	return 0
}

// CalculateF enumerates local and periodic-image pairs and accumulates
// forces under Newton's third law.
func (m *MolCalculator) CalculateF() {
	m.accumulatePairs(m.ForceBetween)
}
