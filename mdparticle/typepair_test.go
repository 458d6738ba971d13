package mdparticle

import (
	"math"
	"testing"

	"github.com/pthm-cable/mdsim/vecutil"
)

func TestTypePairTableSameType(t *testing.T) {
	// sigma=1, epsilon=5 for both types, matching spec §8 scenario 2's pair.
	td := NewTypeDesc(1, 1, 5, 0, 0, 0, vecutil.Zero, 0.01)
	table := NewTypePairTable([]TypeDesc{td})

	pd := table.Get(0, 0)
	wantEpsilon := 24 * math.Sqrt(5*5)
	if math.Abs(pd.ScaledEpsilon-wantEpsilon) > 1e-9 {
		t.Errorf("ScaledEpsilon = %v, want %v", pd.ScaledEpsilon, wantEpsilon)
	}
	if pd.SigmaSquared != 1 {
		t.Errorf("SigmaSquared = %v, want 1", pd.SigmaSquared)
	}
	if pd.Mass != 1 {
		t.Errorf("Mass = %v, want 1", pd.Mass)
	}
}

func TestTypePairTableMixedTypes(t *testing.T) {
	t1 := NewTypeDesc(2, 2, 4, 0, 0, 0, vecutil.Zero, 0.01)
	t2 := NewTypeDesc(3, 4, 9, 0, 0, 0, vecutil.Zero, 0.01)
	table := NewTypePairTable([]TypeDesc{t1, t2})

	pd := table.Get(0, 1)
	wantSigma := (2.0 + 4.0) / 2
	if math.Abs(pd.SigmaSquared-wantSigma*wantSigma) > 1e-9 {
		t.Errorf("SigmaSquared = %v, want %v", pd.SigmaSquared, wantSigma*wantSigma)
	}
	wantMass := 2.0 * 3.0
	if pd.Mass != wantMass {
		t.Errorf("Mass = %v, want %v", pd.Mass, wantMass)
	}

	// Symmetric: (1,0) must equal (0,1).
	if table.Get(1, 0) != pd {
		t.Error("TypePairTable is not symmetric")
	}
}

func TestNewTypeDescIntegrationFactors(t *testing.T) {
	td := NewTypeDesc(2, 1, 1, 0, 0, 0, vecutil.Zero, 0.5)
	if got := td.Dt(); got != 0.5 {
		t.Errorf("Dt() = %v, want 0.5", got)
	}
	if got, want := td.DtHalfM, 0.5/(2*2); math.Abs(got-want) > 1e-12 {
		t.Errorf("DtHalfM = %v, want %v", got, want)
	}
	if got, want := td.DtDtHalfM, (0.5*0.5)/(2*2); math.Abs(got-want) > 1e-12 {
		t.Errorf("DtDtHalfM = %v, want %v", got, want)
	}
	if got, want := td.DiagRestLength, 0.0; got != want {
		t.Errorf("DiagRestLength = %v, want %v (rest length 0)", got, want)
	}
}
