package sim

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Resetter is implemented by dynamics with a discontinuous reset rule. Reset
// is applied to the state returned by every integrator step.
type Resetter interface {
	Reset(x State) State
}

// Gate names one auxiliary state variable recorded in Result.Gating.
type Gate struct {
	Name  string
	Index int
}

// Readout maps a model's internal state onto the reported voltage and the
// auxiliary variables exposed to callers. Dynamics that do not implement it
// report x[0] as voltage and no gating traces.
type Readout interface {
	Voltage(x State) float64
	Gates() []Gate
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Metric observes the recorded samples of one run.
type Metric interface {
	Name() string
	Observe(voltage, current, t float64)
	Value() float64
	Reset()
}

// MaxSteps bounds the number of samples one run may record.
const MaxSteps = math.MaxInt32

type Config struct {
	Dt       float64
	Duration float64
}

// Steps returns floor(Duration / Dt).
func (c Config) Steps() int {
	return int(math.Floor(c.Duration / c.Dt))
}

// Validate rejects non-positive or non-finite timing and runs longer than
// MaxSteps samples.
func (c Config) Validate() error {
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return &ParamError{Field: "timeStep", Value: c.Dt, Reason: "must be positive and finite"}
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return &ParamError{Field: "duration", Value: c.Duration, Reason: "must be positive and finite"}
	}
	if !(c.Duration/c.Dt <= MaxSteps) {
		return &ParamError{Field: "duration", Value: c.Duration, Reason: "too many steps"}
	}
	return nil
}

// Stimulus is a rectangular current pulse of Amplitude applied for
// Start <= t <= Start+Duration.
type Stimulus struct {
	Amplitude float64
	Start     float64
	Duration  float64
}

func NewStimulus(amplitude, start, duration float64) Stimulus {
	return Stimulus{Amplitude: amplitude, Start: start, Duration: duration}
}

// At returns the injected current at time t.
func (s Stimulus) At(t float64) float64 {
	if t >= s.Start && t <= s.Start+s.Duration {
		return s.Amplitude
	}
	return 0
}

// Compute implements Controller.
func (s Stimulus) Compute(_ State, t float64) Control {
	return Control{s.At(t)}
}

// Result holds index-aligned traces: sample i was recorded at Time[i] = i*dt
// before the state was advanced.
type Result struct {
	Time    []float64            `json:"time"`
	Voltage []float64            `json:"voltage"`
	Current []float64            `json:"current"`
	Gating  map[string][]float64 `json:"gating,omitempty"`
	Metrics map[string]float64   `json:"metrics,omitempty"`
}

// Len returns the number of recorded samples.
func (r *Result) Len() int {
	return len(r.Time)
}
