package mdanalysis

import (
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// DiffusionSummaryRow is one windowed mean-squared-displacement summary,
// mirroring the percentile fields of this codebase's windowed population
// statistics (mean/p10/p50/p90 sampled at window end).
type DiffusionSummaryRow struct {
	WindowEnd int     `csv:"window_end"`
	Mean      float64 `csv:"msd_mean"`
	P10       float64 `csv:"msd_p10"`
	P50       float64 `csv:"msd_p50"`
	P90       float64 `csv:"msd_p90"`
}

// DiffusionWindow accumulates per-step MSD samples between flushes, then
// reports their distribution the way a windowed population summary does.
type DiffusionWindow struct {
	samples       []float64
	headerWritten bool
}

// NewDiffusionWindow returns an empty accumulation window.
func NewDiffusionWindow() *DiffusionWindow {
	return &DiffusionWindow{}
}

// Add records one MSD sample (typically Sample's return value for a step).
func (w *DiffusionWindow) Add(msd float64) {
	w.samples = append(w.samples, msd)
}

// Flush summarizes the accumulated samples and clears the window.
func (w *DiffusionWindow) Flush(out io.Writer, windowEnd int) error {
	row := DiffusionSummaryRow{WindowEnd: windowEnd}
	if len(w.samples) > 0 {
		sorted := append([]float64(nil), w.samples...)
		sort.Float64s(sorted)
		row.Mean = stat.Mean(sorted, nil)
		row.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
		row.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		row.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	}
	w.samples = w.samples[:0]

	rows := []DiffusionSummaryRow{row}
	if !w.headerWritten {
		if err := gocsv.Marshal(rows, out); err != nil {
			return err
		}
		w.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, out)
}
