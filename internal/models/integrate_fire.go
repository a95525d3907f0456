package models

import "github.com/san-kum/spikesim/internal/sim"

// IntegrateFireParams describe a leaky integrator τ·dV/dt = −(V−Vrest) + Rm·I
// with τ = Rm·Cm and a hard reset to ResetPotential once V reaches
// ThresholdVoltage.
type IntegrateFireParams struct {
	Timing
	MembraneResistance  float64
	MembraneCapacitance float64
	ThresholdVoltage    float64
	RestingPotential    float64
	ResetPotential      float64
}

func (p *IntegrateFireParams) Defaults() {
	p.Timing = Timing{
		TimeStep:         0.1,
		Duration:         100,
		StimulusCurrent:  1.5,
		StimulusStart:    20,
		StimulusDuration: 10,
	}
	p.MembraneResistance = 10
	p.MembraneCapacitance = 10
	p.ThresholdVoltage = -55
	p.RestingPotential = -70
	p.ResetPotential = -80
}

func (p *IntegrateFireParams) Model() ID      { return IntegrateFire }
func (p *IntegrateFireParams) Common() Timing { return p.Timing }

func (p *IntegrateFireParams) Validate() error {
	if err := validateCommon(p); err != nil {
		return err
	}
	if err := requirePositive(IntegrateFire, "membraneResistance", p.MembraneResistance); err != nil {
		return err
	}
	return requirePositive(IntegrateFire, "membraneCapacitance", p.MembraneCapacitance)
}

func (p *IntegrateFireParams) System() System {
	return &integrateFire{p: *p, tau: p.MembraneResistance * p.MembraneCapacitance}
}

func (p *IntegrateFireParams) fields() []field {
	return append(p.Timing.fields(),
		field{Field{"membraneResistance", "MΩ"}, &p.MembraneResistance},
		field{Field{"membraneCapacitance", "nF"}, &p.MembraneCapacitance},
		field{Field{"thresholdVoltage", "mV"}, &p.ThresholdVoltage},
		field{Field{"restingPotential", "mV"}, &p.RestingPotential},
		field{Field{"resetPotential", "mV"}, &p.ResetPotential},
	)
}

// integrateFire integrates state [V]. Threshold crossings are not marked in
// the output; only the reset is visible in the trace.
type integrateFire struct {
	p   IntegrateFireParams
	tau float64
}

func (d *integrateFire) StateDim() int   { return 1 }
func (d *integrateFire) ControlDim() int { return 1 }

func (d *integrateFire) InitialState() sim.State {
	return sim.State{d.p.RestingPotential}
}

func (d *integrateFire) Derivative(x sim.State, u sim.Control, _ float64) sim.State {
	return sim.State{(-(x[0] - d.p.RestingPotential) + d.p.MembraneResistance*u[0]) / d.tau}
}

// Reset implements sim.Resetter.
func (d *integrateFire) Reset(x sim.State) sim.State {
	if x[0] >= d.p.ThresholdVoltage {
		x[0] = d.p.ResetPotential
	}
	return x
}

func (d *integrateFire) Voltage(x sim.State) float64 { return x[0] }
func (d *integrateFire) Gates() []sim.Gate           { return nil }
