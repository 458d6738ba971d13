// Package mdanalysis implements the two streaming output-side analytics of
// spec §4.8: a radial-distribution-function histogram and a mean-squared-
// displacement log, both written as gocsv-tagged records (one row per bucket
// per RDF write, one row per diffusion write), matching
// telemetry/output.go's header-once CSV idiom.
package mdanalysis

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/vecutil"
)

// RDFRow is one histogram bucket for one write call.
type RDFRow struct {
	Iteration int     `csv:"iteration"`
	Bucket    int     `csv:"bucket"`
	R         float64 `csv:"r"`
	Value     float64 `csv:"value"`
}

// RDF accumulates a radial distribution function over ordered particle
// pairs, including periodic mirror images across every face, edge, and
// corner wrap combination on axes marked periodic.
type RDF struct {
	bucketWidth float64
	counts      []float64
	periodic    [3]bool
	shifts      [][3]float64

	headerWritten bool
}

// NewRDF returns an RDF with numBuckets buckets of width bucketWidth,
// counting periodic mirror images across the axes marked true in periodic.
func NewRDF(numBuckets int, bucketWidth float64, domain vecutil.Vec3, periodic [3]bool) *RDF {
	r := &RDF{
		bucketWidth: bucketWidth,
		counts:      make([]float64, numBuckets),
		periodic:    periodic,
	}
	r.shifts = buildShifts(domain, periodic)
	return r
}

// buildShifts enumerates every combination of {-D_i, 0, +D_i} on axes
// marked periodic and {0} on axes that are not, i.e. every image of the
// domain that could place a mirror particle within range on a periodic
// axis. The (0,0,0) shift (the particle itself, no wrap) is included.
func buildShifts(domain vecutil.Vec3, periodic [3]bool) [][3]float64 {
	options := make([][]float64, 3)
	for a := 0; a < 3; a++ {
		if periodic[a] {
			options[a] = []float64{-domain[a], 0, domain[a]}
		} else {
			options[a] = []float64{0}
		}
	}
	var shifts [][3]float64
	for _, x := range options[0] {
		for _, y := range options[1] {
			for _, z := range options[2] {
				shifts = append(shifts, [3]float64{x, y, z})
			}
		}
	}
	return shifts
}

// Reset zeroes the accumulated counts, e.g. between successive write windows.
func (r *RDF) Reset() {
	for i := range r.counts {
		r.counts[i] = 0
	}
}

// Accumulate adds every ordered pair (i, j), i != j, across every periodic
// image, whose distance falls below numBuckets*bucketWidth, into its bucket.
func (r *RDF) Accumulate(container mdcell.Container) {
	n := container.Len()
	maxDist := float64(len(r.counts)) * r.bucketWidth
	maxDist2 := maxDist * maxDist

	for i := 0; i < n; i++ {
		pi := container.At(i)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			pj := container.At(j)
			for _, s := range r.shifts {
				shift := vecutil.Vec3{s[0], s[1], s[2]}
				delta := pi.Pos.Sub(pj.Pos.Add(shift))
				d2 := delta.NormSquared()
				if d2 >= maxDist2 {
					continue
				}
				d := delta.Norm()
				bucket := int(d / r.bucketWidth)
				if bucket >= 0 && bucket < len(r.counts) {
					r.counts[bucket]++
				}
			}
		}
	}
}

// Write emits n(r)/(4π/3·((r+Δr)³−r³)) per bucket as CSV rows tagged with
// iteration, appending without headers after the first call.
func (r *RDF) Write(w io.Writer, iteration int) error {
	rows := make([]RDFRow, len(r.counts))
	for b, n := range r.counts {
		rLo := float64(b) * r.bucketWidth
		rHi := rLo + r.bucketWidth
		shellVolume := (4.0 / 3.0) * pi * (rHi*rHi*rHi - rLo*rLo*rLo)
		value := 0.0
		if shellVolume > 0 {
			value = n / shellVolume
		}
		rows[b] = RDFRow{Iteration: iteration, Bucket: b, R: rLo, Value: value}
	}

	if !r.headerWritten {
		if err := gocsv.Marshal(rows, w); err != nil {
			return err
		}
		r.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, w)
}

const pi = 3.14159265358979323846
