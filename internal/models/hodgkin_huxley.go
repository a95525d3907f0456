package models

import (
	"math"

	"github.com/san-kum/spikesim/internal/kinetics"
	"github.com/san-kum/spikesim/internal/sim"
)

// HodgkinHuxleyParams are the squid-axon conductances (mS/cm²), reversal
// potentials (mV) and membrane capacitance (µF/cm²).
type HodgkinHuxleyParams struct {
	Timing
	MembraneCapacitance  float64
	SodiumConductance    float64
	PotassiumConductance float64
	LeakConductance      float64
	SodiumReversal       float64
	PotassiumReversal    float64
	LeakReversal         float64
}

// Defaults sets the classic 1952 parameters with a 10 µA/cm² pulse over
// [10, 11] ms.
func (p *HodgkinHuxleyParams) Defaults() {
	p.Timing = Timing{
		TimeStep:         0.01,
		Duration:         50,
		StimulusCurrent:  10,
		StimulusStart:    10,
		StimulusDuration: 1,
	}
	p.MembraneCapacitance = 1
	p.SodiumConductance = 120
	p.PotassiumConductance = 36
	p.LeakConductance = 0.3
	p.SodiumReversal = 50
	p.PotassiumReversal = -77
	p.LeakReversal = -54.4
}

func (p *HodgkinHuxleyParams) Model() ID      { return HodgkinHuxley }
func (p *HodgkinHuxleyParams) Common() Timing { return p.Timing }

func (p *HodgkinHuxleyParams) Validate() error {
	if err := validateCommon(p); err != nil {
		return err
	}
	return requirePositive(HodgkinHuxley, "membraneCapacitance", p.MembraneCapacitance)
}

func (p *HodgkinHuxleyParams) System() System {
	return &hodgkinHuxley{p: *p}
}

func (p *HodgkinHuxleyParams) fields() []field {
	return append(p.Timing.fields(),
		field{Field{"membraneCapacitance", "µF/cm²"}, &p.MembraneCapacitance},
		field{Field{"sodiumConductance", "mS/cm²"}, &p.SodiumConductance},
		field{Field{"potassiumConductance", "mS/cm²"}, &p.PotassiumConductance},
		field{Field{"leakConductance", "mS/cm²"}, &p.LeakConductance},
		field{Field{"sodiumReversal", "mV"}, &p.SodiumReversal},
		field{Field{"potassiumReversal", "mV"}, &p.PotassiumReversal},
		field{Field{"leakReversal", "mV"}, &p.LeakReversal},
	)
}

// hodgkinHuxley integrates state [V, m, h, n].
type hodgkinHuxley struct {
	p HodgkinHuxleyParams
}

func (d *hodgkinHuxley) StateDim() int   { return 4 }
func (d *hodgkinHuxley) ControlDim() int { return 1 }

func (d *hodgkinHuxley) InitialState() sim.State {
	return sim.State{-65, 0.05, 0.6, 0.32}
}

// Currents returns the sodium, potassium and leak currents at x.
func (d *hodgkinHuxley) Currents(x sim.State) (iNa, iK, iL float64) {
	v, m, h, n := x[0], x[1], x[2], x[3]
	iNa = d.p.SodiumConductance * math.Pow(m, 3) * h * (v - d.p.SodiumReversal)
	iK = d.p.PotassiumConductance * math.Pow(n, 4) * (v - d.p.PotassiumReversal)
	iL = d.p.LeakConductance * (v - d.p.LeakReversal)
	return iNa, iK, iL
}

func (d *hodgkinHuxley) Derivative(x sim.State, u sim.Control, _ float64) sim.State {
	v, m, h, n := x[0], x[1], x[2], x[3]
	iNa, iK, iL := d.Currents(x)

	return sim.State{
		(-iNa - iK - iL + u[0]) / d.p.MembraneCapacitance,
		kinetics.GateRate(kinetics.AlphaM(v), kinetics.BetaM(v), m),
		kinetics.GateRate(kinetics.AlphaH(v), kinetics.BetaH(v), h),
		kinetics.GateRate(kinetics.AlphaN(v), kinetics.BetaN(v), n),
	}
}

func (d *hodgkinHuxley) Voltage(x sim.State) float64 { return x[0] }

func (d *hodgkinHuxley) Gates() []sim.Gate {
	return []sim.Gate{{Name: "m", Index: 1}, {Name: "h", Index: 2}, {Name: "n", Index: 3}}
}
