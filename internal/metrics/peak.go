package metrics

import "math"

// PeakVoltage tracks the maximum recorded voltage.
type PeakVoltage struct {
	name string
	max  float64
}

func NewPeakVoltage() *PeakVoltage {
	return &PeakVoltage{
		name: "peak_voltage",
		max:  math.Inf(-1),
	}
}

func (p *PeakVoltage) Name() string {
	return p.name
}

func (p *PeakVoltage) Observe(v, _, _ float64) {
	if v > p.max {
		p.max = v
	}
}

func (p *PeakVoltage) Value() float64 {
	if math.IsInf(p.max, -1) {
		return 0
	}
	return p.max
}

func (p *PeakVoltage) Reset() {
	p.max = math.Inf(-1)
}
