// Package kinetics provides the voltage-dependent rate and steady-state
// functions of the conductance-based membrane models.
//
// All functions are pure and take membrane voltage in mV. Hodgkin-Huxley
// rates are in 1/ms. The α_m and α_n expressions have removable
// singularities (0/0) at V = −40 and V = −55; the analytic limits 1.0 and 0.1
// are returned there instead of NaN.
package kinetics
