package models

import (
	"fmt"

	"github.com/san-kum/episweep/internal/sim"
)

// State vector layout.
const (
	SC  = iota // susceptible children
	EC         // exposed children
	TC         // treated children
	IuC        // untreated infectious children
	RC         // recovered children
	SA         // susceptible adults
	EA         // exposed adults
	IA         // infectious adults
	Dim
)

// CoverageThreshold splits the two intervention regimes. Below it the
// drug is expensive and highly effective (low reach, fast clearance);
// at or above it the drug is cheap and slower. The efficacy branch and
// the medicine label must both derive from this constant.
const CoverageThreshold = 0.5

const (
	LabelExpensive = "Expensive Medicine (Low Coverage)"
	LabelCheap     = "Cheap Medicine (High Coverage)"
)

// MedicineType returns the categorical label for a coverage fraction.
func MedicineType(coverage float64) string {
	if coverage < CoverageThreshold {
		return LabelExpensive
	}
	return LabelCheap
}

// Params is the immutable per-run parameter set. BetaCA (child-to-adult
// transmission) is defined equal to BetaAC and is not a field.
type Params struct {
	Theta        float64 // child latency rate (E -> infectious)
	ThetaA       float64 // adult latency rate
	BetaCC       float64 // child-to-child transmission
	BetaAC       float64 // adult-to-child transmission (= child-to-adult)
	BetaAA       float64 // adult-to-adult transmission
	AlphaLowCov  float64 // treated recovery rate, cheap/high-coverage regime
	AlphaHighCov float64 // treated recovery rate, expensive/low-coverage regime
	Coverage     float64 // target coverage fraction in [0,1]
	TStart       int     // day the treatment pulse begins
}

func DefaultParams() Params {
	return Params{
		Theta:        1.0 / 7.0,
		ThetaA:       1.0 / 10.0,
		BetaCC:       0.5,
		BetaAC:       0.2,
		BetaAA:       0.25,
		AlphaLowCov:  2.0,
		AlphaHighCov: 4.0,
		Coverage:     0.0,
		TStart:       0,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Theta <= 0:
		return fmt.Errorf("%w: theta must be positive, got %g", sim.ErrInvalidParams, p.Theta)
	case p.ThetaA <= 0:
		return fmt.Errorf("%w: theta_a must be positive, got %g", sim.ErrInvalidParams, p.ThetaA)
	case p.BetaCC < 0 || p.BetaAC < 0 || p.BetaAA < 0:
		return fmt.Errorf("%w: transmission coefficients must be non-negative", sim.ErrInvalidParams)
	case p.AlphaLowCov <= 0 || p.AlphaHighCov <= 0:
		return fmt.Errorf("%w: recovery rates must be positive", sim.ErrInvalidParams)
	case p.Coverage < 0 || p.Coverage > 1:
		return fmt.Errorf("%w: coverage must be in [0,1], got %g", sim.ErrInvalidParams, p.Coverage)
	case p.TStart < 0:
		return fmt.Errorf("%w: t_start must be non-negative, got %d", sim.ErrInvalidParams, p.TStart)
	}
	return nil
}

// SEIRT is the compiled model for one run: an immutable parameter set
// plus the efficacy rate, which is selected once here and never
// re-derived during integration.
type SEIRT struct {
	p     Params
	alpha float64
}

func New(p Params) (*SEIRT, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	// Inverted on purpose: low target coverage means the costly,
	// faster-clearing drug is used.
	alpha := p.AlphaLowCov
	if p.Coverage < CoverageThreshold {
		alpha = p.AlphaHighCov
	}
	return &SEIRT{p: p, alpha: alpha}, nil
}

func (m *SEIRT) StateDim() int { return Dim }

func (m *SEIRT) Params() Params { return m.p }

// Alpha is the per-run treated recovery rate.
func (m *SEIRT) Alpha() float64 { return m.alpha }

// Cov is the active coverage at time t: the target fraction on the
// closed window [t_start, t_start+1], zero elsewhere.
func (m *SEIRT) Cov(t float64) float64 {
	start := float64(m.p.TStart)
	if t >= start && t <= start+1 {
		return m.p.Coverage
	}
	return 0
}

// Breakpoints are the pulse edges; the integrator must not step across them.
func (m *SEIRT) Breakpoints() []float64 {
	start := float64(m.p.TStart)
	return []float64{start, start + 1}
}

// Totals returns the child and adult population sums, conserved by the flow.
func (m *SEIRT) Totals(x sim.State) []float64 {
	return []float64{
		x[SC] + x[EC] + x[TC] + x[IuC] + x[RC],
		x[SA] + x[EA] + x[IA],
	}
}

// InfectedChildren is the derived quantity the sweep summarizes:
// treated plus untreated infectious children.
func InfectedChildren(x sim.State) float64 {
	return x[TC] + x[IuC]
}

// ValidateInitial rejects initial states the force-of-infection terms
// cannot handle. Checked once before integration, not per step.
func (m *SEIRT) ValidateInitial(x sim.State) error {
	if len(x) != Dim {
		return fmt.Errorf("%w: got %d components, want %d", sim.ErrDimensionMismatch, len(x), Dim)
	}
	totals := m.Totals(x)
	if totals[0] <= 0 {
		return fmt.Errorf("%w: child population is %g", sim.ErrEmptyPopulation, totals[0])
	}
	if totals[1] <= 0 {
		return fmt.Errorf("%w: adult population is %g", sim.ErrEmptyPopulation, totals[1])
	}
	for i, v := range x {
		if v < 0 {
			return fmt.Errorf("%w: compartment %d is negative (%g)", sim.ErrInvalidParams, i, v)
		}
	}
	return nil
}

func (m *SEIRT) Derivative(x sim.State, t float64) sim.State {
	totalChildren := x[SC] + x[EC] + x[TC] + x[IuC] + x[RC]
	totalAdults := x[SA] + x[EA] + x[IA]

	lambdaC := m.p.BetaAC*(x[IA]/totalAdults) + m.p.BetaCC*((x[TC]+x[IuC])/totalChildren)
	// beta_ca = beta_ac by the symmetry assumption
	lambdaA := m.p.BetaAC*((x[IuC]+x[TC])/totalChildren) + m.p.BetaAA*(x[IA]/totalAdults)

	cov := m.Cov(t)

	d := make(sim.State, Dim)
	d[SC] = -lambdaC * x[SC]
	d[EC] = lambdaC*x[SC] - m.p.Theta*x[EC]
	d[TC] = cov*m.p.Theta*x[EC] - m.alpha*x[TC]
	d[IuC] = (1 - cov) * m.p.Theta * x[EC]
	d[RC] = m.alpha * x[TC]
	d[SA] = -lambdaA * x[SA]
	d[EA] = lambdaA*x[SA] - m.p.ThetaA*x[EA]
	d[IA] = m.p.ThetaA * x[EA]
	return d
}
