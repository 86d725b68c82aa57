package sim

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

type Dynamics interface {
	Derivative(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, t float64, dt float64) State
}

// Discontinuous marks dynamics whose right-hand side jumps at known
// times. The simulator never lets an internal step cross a breakpoint.
type Discontinuous interface {
	Breakpoints() []float64
}

// Conserved marks dynamics with closed aggregates (for an epidemic
// model, the per-population totals). Totals must be invariant along
// exact solutions; the simulator checks drift against them.
type Conserved interface {
	Totals(x State) []float64
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(x State, t float64)
}

type Config struct {
	Dt          float64
	Duration    float64
	OutputEvery float64
	BoundsTol   float64
	Validate    bool
}

func DefaultConfig() Config {
	return Config{
		Dt:          0.05,
		Duration:    50.0,
		OutputEvery: 1.0,
		BoundsTol:   1e-6,
		Validate:    true,
	}
}

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}
