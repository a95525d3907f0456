package kinetics

import "math"

const (
	// AlphaMLimit is lim α_m(V) as V → −40.
	AlphaMLimit = 1.0
	// AlphaNLimit is lim α_n(V) as V → −55.
	AlphaNLimit = 0.1
)

// AlphaM is the sodium activation opening rate.
func AlphaM(v float64) float64 {
	if v+40 == 0 {
		return AlphaMLimit
	}
	return 0.1 * (v + 40) / (1 - math.Exp(-(v+40)/10))
}

// BetaM is the sodium activation closing rate.
func BetaM(v float64) float64 {
	return 4 * math.Exp(-(v+65)/18)
}

// AlphaH is the sodium inactivation recovery rate.
func AlphaH(v float64) float64 {
	return 0.07 * math.Exp(-(v+65)/20)
}

// BetaH is the sodium inactivation rate.
func BetaH(v float64) float64 {
	return 1 / (1 + math.Exp(-(v+35)/10))
}

// AlphaN is the potassium activation opening rate.
func AlphaN(v float64) float64 {
	if v+55 == 0 {
		return AlphaNLimit
	}
	return 0.01 * (v + 55) / (1 - math.Exp(-(v+55)/10))
}

// BetaN is the potassium activation closing rate.
func BetaN(v float64) float64 {
	return 0.125 * math.Exp(-(v+65)/80)
}

// GateRate returns dx/dt = α(1−x) − βx for a gating variable x.
func GateRate(alpha, beta, x float64) float64 {
	return alpha*(1-x) - beta*x
}

// SteadyState returns x∞ = α/(α+β).
func SteadyState(alpha, beta float64) float64 {
	return alpha / (alpha + beta)
}

// TimeConstant returns τ_x = 1/(α+β) in ms.
func TimeConstant(alpha, beta float64) float64 {
	return 1 / (alpha + beta)
}

// GateKinetics is the voltage-clamped behaviour of one gating variable.
type GateKinetics struct {
	Name string
	Inf  float64
	Tau  float64 // ms
}

// HodgkinHuxleyGates returns the m, h and n kinetics held at v.
func HodgkinHuxleyGates(v float64) []GateKinetics {
	rates := []struct {
		name        string
		alpha, beta float64
	}{
		{"m", AlphaM(v), BetaM(v)},
		{"h", AlphaH(v), BetaH(v)},
		{"n", AlphaN(v), BetaN(v)},
	}
	out := make([]GateKinetics, len(rates))
	for i, r := range rates {
		out[i] = GateKinetics{
			Name: r.name,
			Inf:  SteadyState(r.alpha, r.beta),
			Tau:  TimeConstant(r.alpha, r.beta),
		}
	}
	return out
}
