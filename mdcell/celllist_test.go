package mdcell

import (
	"testing"

	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

func TestNewRejectsBadInputs(t *testing.T) {
	domain := vecutil.Vec3{10, 10, 10}
	if _, err := New(0, domain, [3]bool{}); err == nil {
		t.Error("New with zero cutoff should fail")
	}
	if _, err := New(1, vecutil.Vec3{0, 10, 10}, [3]bool{}); err == nil {
		t.Error("New with non-positive domain axis should fail")
	}
}

func TestNewRejectsOversizedPeriodicCutoff(t *testing.T) {
	// Per spec §9's resolved open question: r_cutoff > D_axis/2 on a
	// periodic axis is rejected at construction.
	domain := vecutil.Vec3{10, 10, 10}
	if _, err := New(6, domain, [3]bool{true, false, false}); err == nil {
		t.Error("New should reject r_cutoff exceeding half a periodic domain axis")
	}
	// The same cutoff is fine on a non-periodic axis.
	if _, err := New(6, domain, [3]bool{false, false, false}); err != nil {
		t.Errorf("New should accept an oversized cutoff on a non-periodic axis: %v", err)
	}
}

func TestCellDimensionsCoverCutoff(t *testing.T) {
	cl, err := New(2.5, vecutil.Vec3{10, 10, 10}, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	dims := cl.Dims()
	if dims != ([3]int{4, 4, 4}) {
		t.Errorf("Dims = %v, want (4,4,4) for D=10,rc=2.5", dims)
	}
	for i, s := range cl.Side() {
		if s < 2.5 {
			t.Errorf("side[%d] = %v, shorter than cutoff 2.5", i, s)
		}
	}
}

func TestCreateListBucketsEveryParticleOnce(t *testing.T) {
	cl, err := New(2, vecutil.Vec3{10, 10, 10}, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	particles := []mdparticle.Particle{
		mdparticle.NewParticle(vecutil.Vec3{0.5, 0.5, 0.5}, vecutil.Zero, 0),
		mdparticle.NewParticle(vecutil.Vec3{9.5, 9.5, 9.5}, vecutil.Zero, 0),
		mdparticle.NewParticle(vecutil.Vec3{5, 5, 5}, vecutil.Zero, 0),
	}
	if err := cl.CreateList(particles); err != nil {
		t.Fatal(err)
	}

	seen := map[int]int{}
	cl.LoopInner(func(cellIdx int) {
		for _, idx := range cl.cells[cellIdx] {
			seen[idx]++
		}
	})
	for i := range particles {
		if seen[i] != 1 {
			t.Errorf("particle %d appeared in %d cells, want exactly 1", i, seen[i])
		}
	}
}

func TestCreateListOutOfDomainFails(t *testing.T) {
	cl, err := New(2, vecutil.Vec3{10, 10, 10}, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	// Cell side is 2, so x=-1 would still land in the halo layer; x=-5 maps
	// to grid coordinate -2, outside the padded grid.
	particles := []mdparticle.Particle{
		mdparticle.NewParticle(vecutil.Vec3{-5, 5, 5}, vecutil.Zero, 0),
	}
	if err := cl.CreateList(particles); err == nil {
		t.Error("CreateList with an out-of-domain particle should fail")
	}
}

func TestColouringInvariant(t *testing.T) {
	cl, err := New(1, vecutil.Vec3{6, 6, 6}, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	// Every same-colour pair of interior cells must be more than 1 apart on
	// at least one axis when considering two-hop reachability, i.e. no two
	// same-colour cells may be direct 26-neighbourhood-adjacent.
	for ci, adj := range cl.adjacency {
		for _, cj := range adj {
			if cl.colourOf[ci] != -1 && cl.colourOf[ci] == cl.colourOf[cj] {
				t.Errorf("adjacent cells %d and %d share colour %d", ci, cj, cl.colourOf[ci])
			}
		}
	}
	if cl.NumColours() < 1 {
		t.Error("expected at least one colour group")
	}
}
