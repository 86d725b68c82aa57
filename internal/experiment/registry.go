package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/episweep/internal/integrators"
	"github.com/san-kum/episweep/internal/sim"
)

var integratorFactories = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return integrators.NewEuler() },
	"rk4":   func() sim.Integrator { return integrators.NewRK4() },
	"rk45":  func() sim.Integrator { return integrators.NewRK45() },
}

// GetIntegrator returns a fresh integrator instance; instances carry
// scratch buffers and must not be shared between goroutines.
func GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := integratorFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func ListIntegrators() []string {
	names := make([]string, 0, len(integratorFactories))
	for name := range integratorFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
