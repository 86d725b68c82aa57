// Package sim provides core simulation primitives for compartmental
// epidemic models expressed as ordinary differential equations.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector of compartment values
//   - [Dynamics]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: advances a state over a requested output grid
//
// Models with jump discontinuities in their right-hand side (such as a
// time-gated treatment pulse) implement [Discontinuous]; the simulator
// aligns internal step boundaries to the declared breakpoints so a
// discontinuity is never straddled by a single step. Models with
// conserved aggregates (closed sub-populations) implement [Conserved],
// which the simulator uses to detect integration drift.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel parameter
// sweeps, construct one Simulator per goroutine; see package sweep.
package sim
