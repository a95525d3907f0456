package controllers

import (
	"fmt"
	"math"

	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

// PulseTrain repeats a rectangular pulse every Period ms from Start. Count
// limits the number of pulses; zero means no limit.
type PulseTrain struct {
	Amplitude float64
	Start     float64
	Width     float64
	Period    float64
	Count     int
}

func (p *PulseTrain) At(t float64) float64 {
	if t < p.Start {
		return 0
	}
	k := math.Floor((t - p.Start) / p.Period)
	if p.Count > 0 && int(k) >= p.Count {
		return 0
	}
	if t-p.Start-k*p.Period <= p.Width {
		return p.Amplitude
	}
	return 0
}

func (p *PulseTrain) Compute(x sim.State, t float64) sim.Control {
	return sim.Control{p.At(t)}
}

// Ramp rises linearly from zero to Amplitude over [Start, Start+Duration]
// and is zero outside that window.
type Ramp struct {
	Amplitude float64
	Start     float64
	Duration  float64
}

func (r *Ramp) At(t float64) float64 {
	if t < r.Start || t > r.Start+r.Duration {
		return 0
	}
	return r.Amplitude * (t - r.Start) / r.Duration
}

func (r *Ramp) Compute(x sim.State, t float64) sim.Control {
	return sim.Control{r.At(t)}
}

// Protocol names a stimulation protocol.
type Protocol string

const (
	Pulse Protocol = "pulse"
	Train Protocol = "train"
	Ramps Protocol = "ramp"
	Clamp Protocol = "clamp"
	Off   Protocol = "off"
)

var Protocols = []Protocol{Pulse, Train, Ramps, Clamp, Off}

// Options carries the protocol settings that are not part of a model's
// parameter set.
type Options struct {
	Period float64 // train: pulse repetition period, ms
	Count  int     // train: number of pulses, 0 for unlimited
	Target float64 // clamp: holding potential, mV
	Gain   float64 // clamp: proportional gain, current per mV
	Ki     float64 // clamp: integral gain, current per mV ms
}

func DefaultOptions() Options {
	return Options{
		Period: 20,
		Target: -40,
		Gain:   50,
		Ki:     50,
	}
}

// ForParams builds the drive for p. Pulse, train and ramp take their
// amplitude and window from the stimulus fields of p.
//
// The default clamp gains hold the conductance models at dt = 0.01 ms. The
// FitzHugh-Nagumo drive acts on its dimensionless variable, so a clamp there
// needs gains about a hundred times smaller.
func ForParams(kind Protocol, p models.Params, opts Options) (sim.Controller, error) {
	timing := p.Common()
	switch kind {
	case Pulse, "":
		return timing.Stimulus(), nil
	case Train:
		if !(opts.Period > timing.StimulusDuration) {
			return nil, &sim.ParamError{Model: string(kind), Field: "period", Value: opts.Period, Reason: "must exceed stimulusDuration"}
		}
		if opts.Count < 0 {
			return nil, &sim.ParamError{Model: string(kind), Field: "count", Value: float64(opts.Count), Reason: "must not be negative"}
		}
		return &PulseTrain{
			Amplitude: timing.StimulusCurrent,
			Start:     timing.StimulusStart,
			Width:     timing.StimulusDuration,
			Period:    opts.Period,
			Count:     opts.Count,
		}, nil
	case Ramps:
		if !(timing.StimulusDuration > 0) {
			return nil, &sim.ParamError{Model: string(kind), Field: "stimulusDuration", Value: timing.StimulusDuration, Reason: "must be positive"}
		}
		return &Ramp{
			Amplitude: timing.StimulusCurrent,
			Start:     timing.StimulusStart,
			Duration:  timing.StimulusDuration,
		}, nil
	case Clamp:
		if math.IsNaN(opts.Target) || math.IsInf(opts.Target, 0) {
			return nil, &sim.ParamError{Model: string(kind), Field: "target", Value: opts.Target, Reason: "must be finite"}
		}
		return NewVoltageClamp(opts.Gain, opts.Ki, 0, opts.Target, p.System()), nil
	case Off:
		return NewNone(), nil
	}
	return nil, fmt.Errorf("unknown protocol %q (available: %v)", kind, Protocols)
}
