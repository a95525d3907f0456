// Package models defines the four excitable-membrane models: their
// identifiers and catalogue entries, strongly typed parameter sets with
// default values, and the [sim.Dynamics] each parameter set builds.
//
//   - [HodgkinHuxleyParams]: Na/K/leak conductance model, state (V, m, h, n)
//   - [FitzHughNagumoParams]: two-variable excitable system, state (v, w)
//   - [IntegrateFireParams]: leaky integrator with threshold reset, state (V)
//   - [MorrisLecarParams]: Ca/K conductance model, state (V, w)
//
// [Params] is a closed set: only the four types above implement it. Generic
// field access by name ([Values], [FromValues], [Set]) goes through each
// type's field table, so a missing or unknown field is always an error.
package models
