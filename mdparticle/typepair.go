package mdparticle

import "math"

// TypePairDesc precomputes the per-unordered-type-pair constants the
// Lennard-Jones kernels need every pair-force evaluation.
//
// ScaledEpsilon uses the positive sign convention (+24*sqrt(eps_i*eps_j)),
// resolving the source implementation's inconsistency between TypeDesc
// (negative) and TypePairDesc (positive) noted as an open question in the
// specification. The worked example in spec §8 ("LJ pair, σ=1, ε=5... f on
// particle 0 is (0, 465/512, 0)") only reproduces with the positive form:
// the negative form yields the same magnitude with the opposite sign. The
// positive convention is used throughout.
type TypePairDesc struct {
	ScaledEpsilon float64 // 24 * sqrt(eps_i * eps_j)
	SigmaSquared  float64 // ((sigma_i+sigma_j)/2)^2
	Mass          float64 // m_i * m_j
}

// TypePairTable is a dense, symmetric (n_types x n_types) lookup table.
type TypePairTable struct {
	n     int
	table []TypePairDesc
}

// NewTypePairTable builds the table from a slice of per-type descriptors.
func NewTypePairTable(types []TypeDesc) *TypePairTable {
	n := len(types)
	t := &TypePairTable{n: n, table: make([]TypePairDesc, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ti, tj := types[i], types[j]
			sigma := (ti.Sigma + tj.Sigma) / 2
			t.table[i*n+j] = TypePairDesc{
				ScaledEpsilon: 24 * math.Sqrt(ti.Epsilon*tj.Epsilon),
				SigmaSquared:  sigma * sigma,
				Mass:          ti.Mass * tj.Mass,
			}
		}
	}
	return t
}

// Get returns the precomputed pair descriptor for types t1, t2 (order
// independent since the table is populated symmetrically).
func (t *TypePairTable) Get(t1, t2 int) TypePairDesc {
	return t.table[t1*t.n+t2]
}
