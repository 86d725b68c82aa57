package metrics

import "github.com/san-kum/episweep/internal/sim"

// Final reports the value of a projection at the last observed sample.
type Final struct {
	name    string
	project func(sim.State) float64
	last    float64
	samples int
}

func NewFinal(name string, project func(sim.State) float64) *Final {
	return &Final{name: name, project: project}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x sim.State, t float64) {
	f.last = f.project(x)
	f.samples++
}

func (f *Final) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.last
}

func (f *Final) Reset() {
	f.last = 0
	f.samples = 0
}
