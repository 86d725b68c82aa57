package sweep

// IntRange is an inclusive integer range.
type IntRange struct {
	Start int
	Stop  int
	Step  int
}

func (r IntRange) Values() []int {
	step := r.Step
	if step <= 0 {
		step = 1
	}
	values := make([]int, 0)
	for v := r.Start; v <= r.Stop; v += step {
		values = append(values, v)
	}
	return values
}

// FloatRange is an inclusive float range; the stop bound is matched
// with a small tolerance so 0.1-steps reach 1.0 despite rounding.
type FloatRange struct {
	Start float64
	Stop  float64
	Step  float64
}

func (r FloatRange) Values() []float64 {
	step := r.Step
	if step <= 0 {
		return []float64{r.Start}
	}
	values := make([]float64, 0)
	for i := 0; ; i++ {
		v := r.Start + float64(i)*step
		if v > r.Stop+step*1e-9 {
			break
		}
		values = append(values, v)
	}
	return values
}

// Row is one grid point's result. Err is non-nil for failed points;
// the peak is meaningless in that case.
type Row struct {
	TStart               int
	Coverage             float64
	PeakInfectedChildren float64
	MedicineType         string
	Err                  error
}

func (r Row) Failed() bool { return r.Err != nil }

// Table is the sweep result in grid-traversal order (start day outer,
// coverage inner). It is the sole artifact handed downstream.
type Table struct {
	TStarts   []int
	Coverages []float64
	Rows      []Row
}

// Row index for a (start day, coverage) grid position.
func (t *Table) index(ti, ci int) int { return ti*len(t.Coverages) + ci }

// At returns the row for the ti-th start day and ci-th coverage.
func (t *Table) At(ti, ci int) Row { return t.Rows[t.index(ti, ci)] }

type GridPoint struct {
	TStart   int
	Coverage float64
}

// Summary is the end-of-sweep failure report.
type Summary struct {
	Total        int
	Failed       int
	FailedPoints []GridPoint
}

func (t *Table) Summary() Summary {
	s := Summary{Total: len(t.Rows)}
	for _, row := range t.Rows {
		if row.Failed() {
			s.Failed++
			s.FailedPoints = append(s.FailedPoints, GridPoint{TStart: row.TStart, Coverage: row.Coverage})
		}
	}
	return s
}
