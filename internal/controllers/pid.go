package controllers

import "github.com/san-kum/spikesim/internal/sim"

// VoltageClamp injects the current a PID loop needs to hold the membrane at
// Target mV. Voltage is read through Readout when set, otherwise from x[0].
// A clamp carries loop state and must not be shared between runs.
type VoltageClamp struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Readout  sim.Readout
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewVoltageClamp(kp, ki, kd, target float64, readout sim.Readout) *VoltageClamp {
	return &VoltageClamp{
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		Target:  target,
		Readout: readout,
		first:   true,
	}
}

func (p *VoltageClamp) voltage(x sim.State) float64 {
	if p.Readout != nil {
		return p.Readout.Voltage(x)
	}
	return x[0]
}

func (p *VoltageClamp) Compute(x sim.State, t float64) sim.Control {
	if len(x) == 0 {
		return sim.Control{0}
	}

	err := p.Target - p.voltage(x)

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return sim.Control{p.Kp * err}
	}

	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt

		u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative

		p.prevErr = err
		p.prevT = t

		return sim.Control{u}
	}
	return sim.Control{p.Kp * err}
}

func (p *VoltageClamp) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}
