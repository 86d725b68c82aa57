package config

// Presets are named scenario configurations. "classroom" is the
// default 101-child population; "cohort" is the simplified 100-child
// variant; "coarse" trades grid resolution for a fast smoke sweep.
var Presets = map[string]*Config{
	"classroom": DefaultConfig(),
	"cohort": func() *Config {
		cfg := DefaultConfig()
		cfg.InitState.SusceptibleChildren = 99
		return cfg
	}(),
	"coarse": func() *Config {
		cfg := DefaultConfig()
		cfg.Sweep.TStartStep = 5
		cfg.Sweep.CovStep = 0.25
		cfg.Sweep.CovMin = 0.25
		return cfg
	}(),
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
