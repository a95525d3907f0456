package models

import "github.com/san-kum/spikesim/internal/sim"

// FitzHughNagumoParams are the dimensionless recovery constants of
//
//	dv/dt = v − v³/3 − w + I
//	dw/dt = (v + a − b·w) / τ
//
// Threshold is the spike level on v.
type FitzHughNagumoParams struct {
	Timing
	A         float64
	B         float64
	Tau       float64
	Threshold float64
}

func (p *FitzHughNagumoParams) Defaults() {
	p.Timing = Timing{
		TimeStep:         0.1,
		Duration:         100,
		StimulusCurrent:  0.5,
		StimulusStart:    20,
		StimulusDuration: 5,
	}
	p.A = 0.7
	p.B = 0.8
	p.Tau = 12.5
	p.Threshold = -0.1
}

func (p *FitzHughNagumoParams) Model() ID      { return FitzHughNagumo }
func (p *FitzHughNagumoParams) Common() Timing { return p.Timing }

func (p *FitzHughNagumoParams) Validate() error {
	if err := validateCommon(p); err != nil {
		return err
	}
	return requireNonZero(FitzHughNagumo, "tau", p.Tau)
}

// SpikeThreshold maps Threshold onto the reported voltage axis.
func (p *FitzHughNagumoParams) SpikeThreshold() float64 {
	return p.Threshold*fhnScale + fhnOffset
}

func (p *FitzHughNagumoParams) System() System {
	return &fitzHughNagumo{p: *p}
}

func (p *FitzHughNagumoParams) fields() []field {
	return append(p.Timing.fields(),
		field{Field{"a", ""}, &p.A},
		field{Field{"b", ""}, &p.B},
		field{Field{"tau", ""}, &p.Tau},
		field{Field{"threshold", ""}, &p.Threshold},
	)
}

const (
	// fhnScale and fhnOffset map the fast variable onto a millivolt-like axis.
	fhnScale  = 100
	fhnOffset = -70
)

// fitzHughNagumo integrates state [v, w].
type fitzHughNagumo struct {
	p FitzHughNagumoParams
}

func (d *fitzHughNagumo) StateDim() int   { return 2 }
func (d *fitzHughNagumo) ControlDim() int { return 1 }

func (d *fitzHughNagumo) InitialState() sim.State {
	return sim.State{-1, -0.5}
}

func (d *fitzHughNagumo) Derivative(x sim.State, u sim.Control, _ float64) sim.State {
	v, w := x[0], x[1]
	return sim.State{
		v - (v*v*v)/3 - w + u[0],
		(v + d.p.A - d.p.B*w) / d.p.Tau,
	}
}

// Voltage reports 100·v − 70; v itself is not exposed.
func (d *fitzHughNagumo) Voltage(x sim.State) float64 {
	return x[0]*fhnScale + fhnOffset
}

func (d *fitzHughNagumo) Gates() []sim.Gate {
	return []sim.Gate{{Name: "w", Index: 1}}
}
