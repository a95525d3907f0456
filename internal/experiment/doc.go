// Package experiment is the engine boundary consumed by the CLI, the TUI and
// storage: model catalogue lookups, default parameters, single simulations
// and parameter sweeps.
//
// Every call builds its own simulator and state, so all functions are safe to
// call from multiple goroutines.
package experiment
