package analysis

import (
	"math"

	"github.com/san-kum/episweep/internal/sweep"
)

// Strategy pairs one grid point with its peak outcome.
type Strategy struct {
	TStart   int
	Coverage float64
	Peak     float64
}

// Best returns the minimum-peak strategy among non-failed rows.
// ok is false when every row failed or the table is empty.
func Best(t *sweep.Table) (Strategy, bool) {
	best := Strategy{Peak: math.Inf(1)}
	found := false
	for _, row := range t.Rows {
		if row.Failed() {
			continue
		}
		if row.PeakInfectedChildren < best.Peak {
			best = Strategy{TStart: row.TStart, Coverage: row.Coverage, Peak: row.PeakInfectedChildren}
			found = true
		}
	}
	return best, found
}

// BestPerCoverage returns the minimum-peak start day for each coverage
// level, in the table's coverage order.
func BestPerCoverage(t *sweep.Table) []Strategy {
	out := make([]Strategy, 0, len(t.Coverages))
	for ci, cov := range t.Coverages {
		best := Strategy{Coverage: cov, Peak: math.Inf(1)}
		found := false
		for ti := range t.TStarts {
			row := t.At(ti, ci)
			if row.Failed() {
				continue
			}
			if row.PeakInfectedChildren < best.Peak {
				best.TStart = row.TStart
				best.Peak = row.PeakInfectedChildren
				found = true
			}
		}
		if found {
			out = append(out, best)
		}
	}
	return out
}

// SeriesByCoverage extracts peak-vs-start-day for one coverage level
// (matched with tolerance). Failed rows appear as NaN so gaps stay
// visible downstream.
func SeriesByCoverage(t *sweep.Table, coverage float64) []float64 {
	ci := -1
	for i, c := range t.Coverages {
		if math.Abs(c-coverage) < 1e-9 {
			ci = i
			break
		}
	}
	if ci < 0 {
		return nil
	}
	series := make([]float64, len(t.TStarts))
	for ti := range t.TStarts {
		row := t.At(ti, ci)
		if row.Failed() {
			series[ti] = math.NaN()
			continue
		}
		series[ti] = row.PeakInfectedChildren
	}
	return series
}

// PercentReduction is the relative improvement of peak over baseline,
// in percent. Zero when the baseline is zero.
func PercentReduction(peak, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - peak) / baseline * 100
}
