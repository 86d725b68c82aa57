package experiment

import (
	"context"

	"github.com/san-kum/episweep/internal/metrics"
	"github.com/san-kum/episweep/internal/models"
	"github.com/san-kum/episweep/internal/sim"
)

// Metric names reported by a run.
const (
	MetricPeak       = "peak_infected_children"
	MetricPeakDay    = "peak_day"
	MetricAttackRate = "child_attack_rate"
)

// Config describes one simulation run: a parameter set, an initial
// state, and the integration grid.
type Config struct {
	Params     models.Params
	Init       sim.State
	Integrator string
	Dt         float64
	Days       float64
}

func DefaultConfig() Config {
	return Config{
		Params:     models.DefaultParams(),
		Init:       DefaultInit(),
		Integrator: "rk4",
		Dt:         0.05,
		Days:       50,
	}
}

// DefaultInit is the classroom scenario: 100 susceptible children, one
// untreated infectious child, 20 susceptible adults.
func DefaultInit() sim.State {
	return sim.State{100, 0, 0, 1, 0, 20, 0, 0}
}

// CohortInit is the simplified variant with a 100-child population.
func CohortInit() sim.State {
	return sim.State{99, 0, 0, 1, 0, 20, 0, 0}
}

// Outcome is the scalar summary extracted from one run's trajectory.
// The trajectory itself is discarded after extraction.
type Outcome struct {
	Peak       float64
	PeakDay    float64
	AttackRate float64
}

// Run builds the model, validates everything up front, integrates over
// the day grid and extracts the outcome. Deterministic: identical
// configs produce identical outcomes.
func Run(ctx context.Context, cfg Config) (Outcome, error) {
	model, err := models.New(cfg.Params)
	if err != nil {
		return Outcome{}, err
	}
	if err := model.ValidateInitial(cfg.Init); err != nil {
		return Outcome{}, err
	}

	integ, err := GetIntegrator(cfg.Integrator)
	if err != nil {
		return Outcome{}, err
	}

	childTotal := model.Totals(cfg.Init)[0]

	s := sim.New(model, integ)
	s.AddMetric(metrics.NewPeak(MetricPeak, models.InfectedChildren))
	s.AddMetric(metrics.NewPeakTime(MetricPeakDay, models.InfectedChildren))
	s.AddMetric(metrics.NewFinal(MetricAttackRate, func(x sim.State) float64 {
		return 1 - x[models.SC]/childTotal
	}))

	simCfg := sim.DefaultConfig()
	simCfg.Dt = cfg.Dt
	simCfg.Duration = cfg.Days

	result, err := s.Run(ctx, cfg.Init, simCfg)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Peak:       result.Metrics[MetricPeak],
		PeakDay:    result.Metrics[MetricPeakDay],
		AttackRate: result.Metrics[MetricAttackRate],
	}, nil
}

// RunTrajectory is Run but keeps the full trajectory, for callers that
// inspect the time course rather than the summary.
func RunTrajectory(ctx context.Context, cfg Config) (*sim.Result, error) {
	model, err := models.New(cfg.Params)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateInitial(cfg.Init); err != nil {
		return nil, err
	}
	integ, err := GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s := sim.New(model, integ)
	simCfg := sim.DefaultConfig()
	simCfg.Dt = cfg.Dt
	simCfg.Duration = cfg.Days
	return s.Run(ctx, cfg.Init, simCfg)
}
