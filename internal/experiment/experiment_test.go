package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/episweep/internal/models"
	"github.com/san-kum/episweep/internal/sim"
)

func pulseConfig(tStart int, coverage float64) Config {
	cfg := DefaultConfig()
	cfg.Params.TStart = tStart
	cfg.Params.Coverage = coverage
	return cfg
}

func TestRunConcreteScenario(t *testing.T) {
	outcome, err := Run(context.Background(), pulseConfig(14, 0.6))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if outcome.Peak < 1 {
		t.Errorf("peak %.4f below the single seeded case", outcome.Peak)
	}
	if outcome.Peak > 101 {
		t.Errorf("peak %.4f exceeds the child population", outcome.Peak)
	}
	if outcome.PeakDay <= 0 {
		t.Errorf("peak on day %v, expected an outbreak after day 0", outcome.PeakDay)
	}
	if outcome.AttackRate <= 0 || outcome.AttackRate > 1 {
		t.Errorf("attack rate %.4f outside (0,1]", outcome.AttackRate)
	}
}

func TestInterventionNeverIncreasesPeak(t *testing.T) {
	baseline, err := Run(context.Background(), pulseConfig(14, 0))
	if err != nil {
		t.Fatalf("baseline run failed: %v", err)
	}

	treated, err := Run(context.Background(), pulseConfig(14, 0.6))
	if err != nil {
		t.Fatalf("treated run failed: %v", err)
	}

	if treated.Peak >= baseline.Peak {
		t.Errorf("treatment raised the peak: %.4f >= %.4f", treated.Peak, baseline.Peak)
	}
}

func TestRunDeterminism(t *testing.T) {
	first, err := Run(context.Background(), pulseConfig(14, 0.6))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := Run(context.Background(), pulseConfig(14, 0.6))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first != second {
		t.Errorf("identical configs diverged: %+v vs %+v", first, second)
	}
}

func TestTrajectoryConservationAndNonNegativity(t *testing.T) {
	result, err := RunTrajectory(context.Background(), pulseConfig(14, 0.6))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for k, x := range result.States {
		children := x[models.SC] + x[models.EC] + x[models.TC] + x[models.IuC] + x[models.RC]
		adults := x[models.SA] + x[models.EA] + x[models.IA]

		if math.Abs(children-101) > 1e-6 {
			t.Fatalf("day %v: child total %.10f drifted from 101", result.Times[k], children)
		}
		if math.Abs(adults-20) > 1e-6 {
			t.Fatalf("day %v: adult total %.10f drifted from 20", result.Times[k], adults)
		}
		for i, v := range x {
			if v < -1e-9 {
				t.Fatalf("day %v: compartment %d negative (%g)", result.Times[k], i, v)
			}
		}
	}
}

// Treatment stock must appear only from the pulse window onward and
// decay away once the window closes.
func TestPulseBoundaryTrajectory(t *testing.T) {
	cfg := pulseConfig(14, 0.6)

	model, err := models.New(cfg.Params)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	integ, err := GetIntegrator("rk4")
	if err != nil {
		t.Fatalf("integrator: %v", err)
	}

	s := sim.New(model, integ)
	simCfg := sim.Config{Dt: 0.05, Duration: 20, OutputEvery: 0.5, BoundsTol: 1e-6, Validate: true}

	result, err := s.Run(context.Background(), cfg.Init, simCfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	at := func(day float64) sim.State {
		return result.States[int(math.Round(day/0.5))]
	}

	if tc := at(13)[models.TC]; tc != 0 {
		t.Errorf("T_c(13) = %g, want exactly 0 before the pulse", tc)
	}
	// t=14 is the window's left edge; only the final integration stage
	// touches it, so at most a sliver of treatment stock exists.
	if tc := at(14)[models.TC]; tc < 0 || tc > 0.05 {
		t.Errorf("T_c(14) = %g, want a boundary sliver in [0, 0.05]", tc)
	}
	if at(14.5)[models.TC] <= at(14)[models.TC] {
		t.Error("treatment stock not growing inside the pulse window")
	}
	if at(14.5)[models.TC] < 0.1 {
		t.Errorf("T_c(14.5) = %g, implausibly small mid-pulse", at(14.5)[models.TC])
	}
	if at(16)[models.TC] >= at(15)[models.TC] {
		t.Error("treatment stock not decaying after the window closed")
	}
	if at(19)[models.TC] > 0.05*at(15)[models.TC] {
		t.Errorf("T_c(19) = %g, expected near-complete clearance", at(19)[models.TC])
	}
}

func TestZeroCoverageKeepsTreatmentEmpty(t *testing.T) {
	result, err := RunTrajectory(context.Background(), pulseConfig(14, 0))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for k, x := range result.States {
		if x[models.TC] != 0 {
			t.Fatalf("day %v: T_c = %g with zero coverage", result.Times[k], x[models.TC])
		}
		if x[models.RC] != 0 {
			t.Fatalf("day %v: R_c = %g with zero coverage", result.Times[k], x[models.RC])
		}
	}

	final := result.States[len(result.States)-1]
	if final[models.IuC] <= 1 {
		t.Errorf("no outbreak: Iu_c(50) = %g", final[models.IuC])
	}
}

func TestRunRejectsBadInputsBeforeIntegration(t *testing.T) {
	cfg := pulseConfig(14, 0.6)
	cfg.Init = sim.State{100, 0, 0, 1, 0, 0, 0, 0} // no adults

	_, err := Run(context.Background(), cfg)
	if !errors.Is(err, sim.ErrEmptyPopulation) {
		t.Errorf("expected ErrEmptyPopulation, got %v", err)
	}
	if !sim.IsDomainError(err) {
		t.Error("empty population not classified as a domain error")
	}

	cfg = pulseConfig(14, 1.5)
	_, err = Run(context.Background(), cfg)
	if !errors.Is(err, sim.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestGetIntegrator(t *testing.T) {
	for _, name := range ListIntegrators() {
		if _, err := GetIntegrator(name); err != nil {
			t.Errorf("registered integrator %q not constructible: %v", name, err)
		}
	}

	if _, err := GetIntegrator("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
