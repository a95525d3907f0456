package models

import (
	"github.com/san-kum/spikesim/internal/kinetics"
	"github.com/san-kum/spikesim/internal/sim"
)

// MorrisLecarParams describe the barnacle-muscle model with instantaneous
// calcium activation and slow potassium recovery w.
type MorrisLecarParams struct {
	Timing
	MembraneCapacitance  float64
	CalciumConductance   float64
	PotassiumConductance float64
	LeakConductance      float64
	CalciumReversal      float64
	PotassiumReversal    float64
	LeakReversal         float64
	V1                   float64
	V2                   float64
	V3                   float64
	V4                   float64
	Phi                  float64
}

func (p *MorrisLecarParams) Defaults() {
	p.Timing = Timing{
		TimeStep:         0.01,
		Duration:         100,
		StimulusCurrent:  80,
		StimulusStart:    20,
		StimulusDuration: 5,
	}
	p.MembraneCapacitance = 20
	p.CalciumConductance = 4.4
	p.PotassiumConductance = 8
	p.LeakConductance = 2
	p.CalciumReversal = 120
	p.PotassiumReversal = -84
	p.LeakReversal = -60
	p.V1 = -1.2
	p.V2 = 18
	p.V3 = 2
	p.V4 = 30
	p.Phi = 0.04
}

func (p *MorrisLecarParams) Model() ID      { return MorrisLecar }
func (p *MorrisLecarParams) Common() Timing { return p.Timing }

func (p *MorrisLecarParams) Validate() error {
	if err := validateCommon(p); err != nil {
		return err
	}
	if err := requirePositive(MorrisLecar, "membraneCapacitance", p.MembraneCapacitance); err != nil {
		return err
	}
	if err := requireNonZero(MorrisLecar, "v2", p.V2); err != nil {
		return err
	}
	return requireNonZero(MorrisLecar, "v4", p.V4)
}

func (p *MorrisLecarParams) System() System {
	return &morrisLecar{
		p:    *p,
		curv: kinetics.Boltzmann{V1: p.V1, V2: p.V2, V3: p.V3, V4: p.V4},
	}
}

func (p *MorrisLecarParams) fields() []field {
	return append(p.Timing.fields(),
		field{Field{"membraneCapacitance", "µF/cm²"}, &p.MembraneCapacitance},
		field{Field{"calciumConductance", "mS/cm²"}, &p.CalciumConductance},
		field{Field{"potassiumConductance", "mS/cm²"}, &p.PotassiumConductance},
		field{Field{"leakConductance", "mS/cm²"}, &p.LeakConductance},
		field{Field{"calciumReversal", "mV"}, &p.CalciumReversal},
		field{Field{"potassiumReversal", "mV"}, &p.PotassiumReversal},
		field{Field{"leakReversal", "mV"}, &p.LeakReversal},
		field{Field{"v1", "mV"}, &p.V1},
		field{Field{"v2", "mV"}, &p.V2},
		field{Field{"v3", "mV"}, &p.V3},
		field{Field{"v4", "mV"}, &p.V4},
		field{Field{"phi", "1/ms"}, &p.Phi},
	)
}

// morrisLecar integrates state [V, w].
type morrisLecar struct {
	p    MorrisLecarParams
	curv kinetics.Boltzmann
}

func (d *morrisLecar) StateDim() int   { return 2 }
func (d *morrisLecar) ControlDim() int { return 1 }

func (d *morrisLecar) InitialState() sim.State {
	return sim.State{-60, 0.014}
}

func (d *morrisLecar) Derivative(x sim.State, u sim.Control, _ float64) sim.State {
	v, w := x[0], x[1]

	iCa := d.p.CalciumConductance * d.curv.MInf(v) * (v - d.p.CalciumReversal)
	iK := d.p.PotassiumConductance * w * (v - d.p.PotassiumReversal)
	iL := d.p.LeakConductance * (v - d.p.LeakReversal)

	return sim.State{
		(-iCa - iK - iL + u[0]) / d.p.MembraneCapacitance,
		d.p.Phi * (d.curv.WInf(v) - w) / d.curv.TauW(v),
	}
}

func (d *morrisLecar) Voltage(x sim.State) float64 { return x[0] }

func (d *morrisLecar) Gates() []sim.Gate {
	return []sim.Gate{{Name: "w", Index: 1}}
}
