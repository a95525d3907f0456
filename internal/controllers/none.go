package controllers

import "github.com/san-kum/spikesim/internal/sim"

// Constant injects the same current at every time.
type Constant struct {
	Amplitude float64
}

func NewConstant(amplitude float64) *Constant {
	return &Constant{Amplitude: amplitude}
}

// NewNone returns an unstimulated drive.
func NewNone() *Constant {
	return &Constant{}
}

func (c *Constant) Compute(x sim.State, t float64) sim.Control {
	return sim.Control{c.Amplitude}
}
