// Package sim provides the fixed-step stepping driver shared by every
// membrane model.
//
// The package defines the primitives a model plugs into:
//
//   - [State]: vector of evolving model variables
//   - [Dynamics]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical stepper
//   - [Controller]: input source; [Stimulus] is the rectangular current pulse
//   - [Readout]: maps internal state onto reported voltage and gating traces
//   - [Simulator]: runs one pass and assembles a [Result]
//
// # Example
//
//	sys := params.System()
//	s := sim.New(sys, integrators.NewEuler(), params.Common().Stimulus())
//	result, err := s.Run(sys.InitialState(), params.Common().Config())
//
// # Thread Safety
//
// A Simulator owns the metrics attached to it and is NOT safe for concurrent
// use. Runs themselves share no state, so independent Simulators may run in
// parallel; [Sweep] does exactly that.
package sim
