package metrics

import "github.com/san-kum/episweep/internal/sim"

// PeakTime records the first output time at which a projection
// attains its maximum.
type PeakTime struct {
	name    string
	project func(sim.State) float64
	max     float64
	argTime float64
	samples int
}

func NewPeakTime(name string, project func(sim.State) float64) *PeakTime {
	return &PeakTime{name: name, project: project}
}

func (p *PeakTime) Name() string { return p.name }

func (p *PeakTime) Observe(x sim.State, t float64) {
	v := p.project(x)
	if p.samples == 0 || v > p.max {
		p.max = v
		p.argTime = t
	}
	p.samples++
}

func (p *PeakTime) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.argTime
}

func (p *PeakTime) Reset() {
	p.max = 0
	p.argTime = 0
	p.samples = 0
}
