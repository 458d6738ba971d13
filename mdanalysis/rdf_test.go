package mdanalysis

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

func TestRDFAccumulateBucketsOrderedPairs(t *testing.T) {
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})
	c.Append(mdparticle.NewParticle(vecutil.Vec3{0, 0, 0}, vecutil.Zero, 0))
	c.Append(mdparticle.NewParticle(vecutil.Vec3{1.5, 0, 0}, vecutil.Zero, 0))

	rdf := NewRDF(4, 1.0, vecutil.Zero, [3]bool{})
	rdf.Accumulate(c)

	// distance 1.5 falls in bucket 1 ([1,2)); each ordered pair (i,j) and
	// (j,i) contributes one count to that bucket, with no periodic images.
	if rdf.counts[1] != 2 {
		t.Errorf("counts[1] = %v, want 2 (both pair orderings)", rdf.counts[1])
	}
	for b, n := range rdf.counts {
		if b != 1 && n != 0 {
			t.Errorf("counts[%d] = %v, want 0", b, n)
		}
	}
}

func TestRDFAccumulateCountsPeriodicImages(t *testing.T) {
	domain := vecutil.Vec3{10, 10, 10}
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})
	// Particles near opposite x faces: the direct distance is large, but
	// the periodic mirror image is close.
	c.Append(mdparticle.NewParticle(vecutil.Vec3{0.5, 5, 5}, vecutil.Zero, 0))
	c.Append(mdparticle.NewParticle(vecutil.Vec3{9.5, 5, 5}, vecutil.Zero, 0))

	rdf := NewRDF(4, 1.0, domain, [3]bool{true, false, false})
	rdf.Accumulate(c)

	// Mirror distance is 1.0, landing in bucket 1 ([1,2)); direct distance 9
	// is outside the histogram's 4-bucket range entirely.
	if rdf.counts[1] != 2 {
		t.Errorf("counts[1] = %v, want 2 from the periodic mirror images", rdf.counts[1])
	}
}

func TestRDFResetZeroesCounts(t *testing.T) {
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 0.01)
	c := mdcell.NewDSContainer(vecutil.Zero, []mdparticle.TypeDesc{td})
	c.Append(mdparticle.NewParticle(vecutil.Vec3{0, 0, 0}, vecutil.Zero, 0))
	c.Append(mdparticle.NewParticle(vecutil.Vec3{0.5, 0, 0}, vecutil.Zero, 0))

	rdf := NewRDF(4, 1.0, vecutil.Zero, [3]bool{})
	rdf.Accumulate(c)
	rdf.Reset()
	for b, n := range rdf.counts {
		if n != 0 {
			t.Errorf("counts[%d] = %v after Reset, want 0", b, n)
		}
	}
}

func TestRDFWriteNormalizesByShellVolume(t *testing.T) {
	rdf := NewRDF(2, 1.0, vecutil.Zero, [3]bool{})
	rdf.counts[0] = 10

	var buf bytes.Buffer
	if err := rdf.Write(&buf, 3); err != nil {
		t.Fatalf("Write: %v", err)
	}

	shellVolume := (4.0 / 3.0) * math.Pi * 1.0 // r in [0,1)
	wantValue := 10.0 / shellVolume

	out := buf.String()
	if !strings.Contains(out, "iteration") {
		t.Errorf("first Write missing header: %q", out)
	}
	if !strings.Contains(out, "3,0,0") {
		t.Errorf("output missing iteration/bucket/r columns: %q", out)
	}
	var gotValue float64
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "3,0,0,") {
			gotValue, _ = strconv.ParseFloat(strings.TrimPrefix(line, "3,0,0,"), 64)
		}
	}
	if math.Abs(gotValue-wantValue) > 1e-9 {
		t.Errorf("bucket 0 value = %v, want %v", gotValue, wantValue)
	}
}

func TestRDFWriteSecondCallOmitsHeader(t *testing.T) {
	rdf := NewRDF(1, 1.0, vecutil.Zero, [3]bool{})

	var buf bytes.Buffer
	if err := rdf.Write(&buf, 0); err != nil {
		t.Fatal(err)
	}
	if err := rdf.Write(&buf, 1); err != nil {
		t.Fatal(err)
	}

	if n := strings.Count(buf.String(), "iteration"); n != 1 {
		t.Errorf("header appeared %d times across two writes, want 1", n)
	}
}
