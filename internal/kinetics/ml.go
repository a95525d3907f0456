package kinetics

import "math"

// Boltzmann holds the half-activation voltages and slopes of the
// Morris-Lecar tanh curves: V1/V2 for the calcium activation m∞,
// V3/V4 for the potassium recovery w∞ and its relaxation time.
type Boltzmann struct {
	V1 float64
	V2 float64
	V3 float64
	V4 float64
}

// MInf is the instantaneous calcium activation ½(1 + tanh((V−V1)/V2)).
func (b Boltzmann) MInf(v float64) float64 {
	return 0.5 * (1 + math.Tanh((v-b.V1)/b.V2))
}

// WInf is the steady-state potassium activation ½(1 + tanh((V−V3)/V4)).
func (b Boltzmann) WInf(v float64) float64 {
	return 0.5 * (1 + math.Tanh((v-b.V3)/b.V4))
}

// TauW is the potassium relaxation time 1/cosh((V−V3)/(2·V4)).
func (b Boltzmann) TauW(v float64) float64 {
	return 1 / math.Cosh((v-b.V3)/(2*b.V4))
}
