package sim

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// timeEps guards float comparisons when clamping steps to boundaries.
const timeEps = 1e-9

type Simulator struct {
	dyn        Dynamics
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn Dynamics, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances x0 from t=0 over Duration, recording one sample per
// OutputEvery interval (plus the initial state). Internal steps are at
// most Dt and are split at output times and at any breakpoints the
// dynamics declare, so discontinuities are evaluated on both sides.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	samples := int(math.Round(cfg.Duration / cfg.OutputEvery))
	result := &Result{
		States:  make([]State, 0, samples+1),
		Times:   make([]float64, 0, samples+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var initialTotals []float64
	if c, ok := s.dyn.(Conserved); ok {
		initialTotals = c.Totals(x0)
	}

	breaks := s.breakpoints(cfg.Duration)

	x := x0.Clone()
	t := 0.0

	if cfg.Validate {
		if err := s.checkState(x, initialTotals, cfg.BoundsTol); err != nil {
			return nil, &RunError{Sample: 0, Time: t, Wrapped: err}
		}
	}
	s.sample(result, x, t)

	for k := 1; k <= samples; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		target := float64(k) * cfg.OutputEvery
		x = s.advance(result, x, t, target, breaks, cfg.Dt)
		t = target

		if cfg.Validate {
			if err := s.checkState(x, initialTotals, cfg.BoundsTol); err != nil {
				return result, &RunError{Sample: k, Time: t, Wrapped: err}
			}
		}
		s.sample(result, x, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) sample(result *Result, x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnSample(x, t)
	}
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
}

// advance marches from t0 to t1 with steps of at most dt, clamping
// each step so it ends no later than the next breakpoint or t1.
func (s *Simulator) advance(result *Result, x State, t0, t1 float64, breaks []float64, dt float64) State {
	t := t0
	for t < t1-timeEps {
		next := t + dt
		if next > t1 {
			next = t1
		}
		for _, b := range breaks {
			if b > t+timeEps && b < next-timeEps {
				next = b
				break
			}
		}
		x = s.integrator.Step(s.dyn, x, t, next-t)
		t = next
		result.StepsTaken++
	}
	return x
}

func (s *Simulator) breakpoints(duration float64) []float64 {
	d, ok := s.dyn.(Discontinuous)
	if !ok {
		return nil
	}
	breaks := make([]float64, 0, 2)
	for _, b := range d.Breakpoints() {
		if b > 0 && b < duration {
			breaks = append(breaks, b)
		}
	}
	sort.Float64s(breaks)
	return breaks
}

func (s *Simulator) checkState(x State, initialTotals []float64, tol float64) error {
	if !x.IsValid() {
		return ErrInvalidState
	}
	if initialTotals == nil {
		return nil
	}

	grandTotal := 0.0
	for _, v := range initialTotals {
		grandTotal += v
	}
	for i, v := range x {
		if v < -tol || v > grandTotal+tol {
			return fmt.Errorf("%w: component %d = %g", ErrBoundsViolation, i, v)
		}
	}

	totals := s.dyn.(Conserved).Totals(x)
	for i, total := range totals {
		ref := initialTotals[i]
		if math.Abs(total-ref) > tol*math.Max(1, math.Abs(ref)) {
			return fmt.Errorf("%w: aggregate %d is %g, expected %g", ErrConservationDrift, i, total, ref)
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.OutputEvery <= 0 {
		return fmt.Errorf("output interval must be positive, got %f", cfg.OutputEvery)
	}
	if cfg.Validate && cfg.BoundsTol <= 0 {
		return fmt.Errorf("bounds tolerance must be positive, got %f", cfg.BoundsTol)
	}
	return nil
}
