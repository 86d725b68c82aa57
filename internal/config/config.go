package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episweep/internal/models"
	"github.com/san-kum/episweep/internal/sim"
	"github.com/san-kum/episweep/internal/sweep"
)

const (
	DefaultDt         = 0.05
	DefaultDays       = 50.0
	DefaultIntegrator = "rk4"
)

type Config struct {
	Integrator string           `yaml:"integrator"`
	Dt         float64          `yaml:"dt"`
	Days       float64          `yaml:"days"`
	Workers    int              `yaml:"workers"`
	Params     ParamsConfig     `yaml:"params"`
	InitState  InitStateConfig  `yaml:"init_state"`
	Sweep      SweepRangeConfig `yaml:"sweep"`
}

type ParamsConfig struct {
	Theta        float64 `yaml:"theta"`
	ThetaA       float64 `yaml:"theta_a"`
	BetaCC       float64 `yaml:"beta_cc"`
	BetaAC       float64 `yaml:"beta_ac"`
	BetaAA       float64 `yaml:"beta_aa"`
	AlphaLowCov  float64 `yaml:"alpha_low_cov"`
	AlphaHighCov float64 `yaml:"alpha_high_cov"`
}

type InitStateConfig struct {
	SusceptibleChildren float64 `yaml:"susceptible_children"`
	ExposedChildren     float64 `yaml:"exposed_children"`
	TreatedChildren     float64 `yaml:"treated_children"`
	InfectiousChildren  float64 `yaml:"infectious_children"`
	RecoveredChildren   float64 `yaml:"recovered_children"`
	SusceptibleAdults   float64 `yaml:"susceptible_adults"`
	ExposedAdults       float64 `yaml:"exposed_adults"`
	InfectiousAdults    float64 `yaml:"infectious_adults"`
}

type SweepRangeConfig struct {
	TStartMin  int     `yaml:"t_start_min"`
	TStartMax  int     `yaml:"t_start_max"`
	TStartStep int     `yaml:"t_start_step"`
	CovMin     float64 `yaml:"cov_min"`
	CovMax     float64 `yaml:"cov_max"`
	CovStep    float64 `yaml:"cov_step"`
}

func DefaultConfig() *Config {
	p := models.DefaultParams()
	return &Config{
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Days:       DefaultDays,
		Params: ParamsConfig{
			Theta:        p.Theta,
			ThetaA:       p.ThetaA,
			BetaCC:       p.BetaCC,
			BetaAC:       p.BetaAC,
			BetaAA:       p.BetaAA,
			AlphaLowCov:  p.AlphaLowCov,
			AlphaHighCov: p.AlphaHighCov,
		},
		InitState: InitStateConfig{
			SusceptibleChildren: 100,
			InfectiousChildren:  1,
			SusceptibleAdults:   20,
		},
		Sweep: SweepRangeConfig{
			TStartMin: 1, TStartMax: 50, TStartStep: 1,
			CovMin: 0.1, CovMax: 1.0, CovStep: 0.1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetParams assembles the model parameter set with coverage and start
// day left at their zero values; callers substitute those per run.
func (c *Config) GetParams() models.Params {
	return models.Params{
		Theta:        c.Params.Theta,
		ThetaA:       c.Params.ThetaA,
		BetaCC:       c.Params.BetaCC,
		BetaAC:       c.Params.BetaAC,
		BetaAA:       c.Params.BetaAA,
		AlphaLowCov:  c.Params.AlphaLowCov,
		AlphaHighCov: c.Params.AlphaHighCov,
	}
}

func (c *Config) GetInitState() sim.State {
	return sim.State{
		c.InitState.SusceptibleChildren,
		c.InitState.ExposedChildren,
		c.InitState.TreatedChildren,
		c.InitState.InfectiousChildren,
		c.InitState.RecoveredChildren,
		c.InitState.SusceptibleAdults,
		c.InitState.ExposedAdults,
		c.InitState.InfectiousAdults,
	}
}

func (c *Config) GetSweepRequest() sweep.Request {
	return sweep.Request{
		TStarts:    sweep.IntRange{Start: c.Sweep.TStartMin, Stop: c.Sweep.TStartMax, Step: c.Sweep.TStartStep}.Values(),
		Coverages:  sweep.FloatRange{Start: c.Sweep.CovMin, Stop: c.Sweep.CovMax, Step: c.Sweep.CovStep}.Values(),
		Base:       c.GetParams(),
		Init:       c.GetInitState(),
		Integrator: c.Integrator,
		Dt:         c.Dt,
		Days:       c.Days,
		Workers:    c.Workers,
	}
}
