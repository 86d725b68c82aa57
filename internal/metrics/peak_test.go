package metrics

import (
	"testing"

	"github.com/san-kum/episweep/internal/sim"
)

func first(x sim.State) float64 { return x[0] }

func TestPeakTracksMaximum(t *testing.T) {
	p := NewPeak("peak", first)

	for i, v := range []float64{1, 4, 9, 7, 2} {
		p.Observe(sim.State{v}, float64(i))
	}

	if p.Value() != 9 {
		t.Errorf("peak = %v, want 9", p.Value())
	}
}

func TestPeakNegativeValues(t *testing.T) {
	p := NewPeak("peak", first)

	for i, v := range []float64{-3, -1, -7} {
		p.Observe(sim.State{v}, float64(i))
	}

	// The first sample seeds the maximum; zero would be wrong here.
	if p.Value() != -1 {
		t.Errorf("peak = %v, want -1", p.Value())
	}
}

func TestPeakEmptyAndReset(t *testing.T) {
	p := NewPeak("peak", first)

	if p.Value() != 0 {
		t.Errorf("empty peak = %v, want 0", p.Value())
	}

	p.Observe(sim.State{5}, 0)
	p.Reset()
	if p.Value() != 0 {
		t.Errorf("peak after reset = %v, want 0", p.Value())
	}
}

func TestPeakTimeFirstMaximum(t *testing.T) {
	p := NewPeakTime("peak_day", first)

	times := []float64{0, 1, 2, 3, 4}
	values := []float64{1, 4, 9, 9, 2}
	for i := range times {
		p.Observe(sim.State{values[i]}, times[i])
	}

	// Ties resolve to the earliest time.
	if p.Value() != 2 {
		t.Errorf("peak time = %v, want 2", p.Value())
	}
}

func TestFinalKeepsLastSample(t *testing.T) {
	f := NewFinal("attack_rate", first)

	for i, v := range []float64{0.1, 0.5, 0.8} {
		f.Observe(sim.State{v}, float64(i))
	}

	if f.Value() != 0.8 {
		t.Errorf("final = %v, want 0.8", f.Value())
	}

	f.Reset()
	if f.Value() != 0 {
		t.Errorf("final after reset = %v, want 0", f.Value())
	}
}
