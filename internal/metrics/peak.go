package metrics

import "github.com/san-kum/episweep/internal/sim"

// Peak tracks the maximum of a state projection over the output grid.
type Peak struct {
	name    string
	project func(sim.State) float64
	max     float64
	samples int
}

func NewPeak(name string, project func(sim.State) float64) *Peak {
	return &Peak{name: name, project: project}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x sim.State, t float64) {
	v := p.project(x)
	if p.samples == 0 || v > p.max {
		p.max = v
	}
	p.samples++
}

func (p *Peak) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}
