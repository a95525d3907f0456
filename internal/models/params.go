package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/spikesim/internal/sim"
)

type ID string

const (
	HodgkinHuxley  ID = "hodgkin-huxley"
	FitzHughNagumo ID = "fitzhugh-nagumo"
	IntegrateFire  ID = "integrate-fire"
	MorrisLecar    ID = "morris-lecar"
)

// System is the simulated form of a parameter set.
type System interface {
	sim.Dynamics
	sim.Readout
	InitialState() sim.State
}

// Params is implemented by the per-model parameter structs.
type Params interface {
	Model() ID
	Common() Timing
	Validate() error
	System() System
	fields() []field
}

// Field describes one named numeric parameter.
type Field struct {
	Name string
	Unit string
}

type field struct {
	Field
	ptr *float64
}

// Timing is the stimulus and time block shared by every model. Times are in
// ms; the stimulus amplitude is in the model's current units.
type Timing struct {
	TimeStep         float64
	Duration         float64
	StimulusCurrent  float64
	StimulusStart    float64
	StimulusDuration float64
}

func (t Timing) Config() sim.Config {
	return sim.Config{Dt: t.TimeStep, Duration: t.Duration}
}

func (t Timing) Stimulus() sim.Stimulus {
	return sim.NewStimulus(t.StimulusCurrent, t.StimulusStart, t.StimulusDuration)
}

func (t *Timing) fields() []field {
	return []field{
		{Field{"timeStep", "ms"}, &t.TimeStep},
		{Field{"duration", "ms"}, &t.Duration},
		{Field{"stimulusCurrent", ""}, &t.StimulusCurrent},
		{Field{"stimulusStart", "ms"}, &t.StimulusStart},
		{Field{"stimulusDuration", "ms"}, &t.StimulusDuration},
	}
}

// validateCommon checks that every field is finite and that the timing is
// simulable. Model-specific checks run after it.
func validateCommon(p Params) error {
	id := string(p.Model())
	for _, f := range p.fields() {
		if math.IsNaN(*f.ptr) || math.IsInf(*f.ptr, 0) {
			return &sim.ParamError{Model: id, Field: f.Name, Value: *f.ptr, Reason: "must be finite"}
		}
	}
	if err := p.Common().Config().Validate(); err != nil {
		var pe *sim.ParamError
		if errors.As(err, &pe) {
			pe.Model = id
		}
		return err
	}
	return nil
}

func requirePositive(id ID, name string, v float64) error {
	if v <= 0 {
		return &sim.ParamError{Model: string(id), Field: name, Value: v, Reason: "must be positive"}
	}
	return nil
}

func requireNonZero(id ID, name string, v float64) error {
	if v == 0 {
		return &sim.ParamError{Model: string(id), Field: name, Value: v, Reason: "must be non-zero"}
	}
	return nil
}

// New returns a zero-valued parameter set for id.
func New(id ID) (Params, error) {
	switch id {
	case HodgkinHuxley:
		return &HodgkinHuxleyParams{}, nil
	case FitzHughNagumo:
		return &FitzHughNagumoParams{}, nil
	case IntegrateFire:
		return &IntegrateFireParams{}, nil
	case MorrisLecar:
		return &MorrisLecarParams{}, nil
	}
	return nil, fmt.Errorf("%w: %q", sim.ErrUnknownModel, id)
}

// Fields lists the parameter names of id in declaration order.
func Fields(id ID) ([]Field, error) {
	p, err := New(id)
	if err != nil {
		return nil, err
	}
	fs := p.fields()
	out := make([]Field, len(fs))
	for i, f := range fs {
		out[i] = f.Field
	}
	return out, nil
}

// Values flattens p into a name → value map.
func Values(p Params) map[string]float64 {
	fs := p.fields()
	out := make(map[string]float64, len(fs))
	for _, f := range fs {
		out[f.Name] = *f.ptr
	}
	return out
}

// FromValues builds and validates a parameter set for id. Every field of the
// model must be present and no other key may appear.
func FromValues(id ID, values map[string]float64) (Params, error) {
	p, err := New(id)
	if err != nil {
		return nil, err
	}

	fs := p.fields()
	known := make(map[string]bool, len(fs))
	for _, f := range fs {
		known[f.Name] = true
		v, ok := values[f.Name]
		if !ok {
			return nil, &sim.ParamError{Model: string(id), Field: f.Name, Reason: "missing"}
		}
		*f.ptr = v
	}
	for name := range values {
		if !known[name] {
			return nil, &sim.ParamError{Model: string(id), Field: name, Reason: "unknown field"}
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Set assigns one named field of p. It does not validate the result.
func Set(p Params, name string, value float64) error {
	for _, f := range p.fields() {
		if f.Name == name {
			*f.ptr = value
			return nil
		}
	}
	return &sim.ParamError{Model: string(p.Model()), Field: name, Reason: "unknown field"}
}

// Clone returns an independent copy of p.
func Clone(p Params) Params {
	c, _ := New(p.Model())
	src := p.fields()
	for i, f := range c.fields() {
		*f.ptr = *src[i].ptr
	}
	return c
}

// DefaultSpikeThreshold is the reported voltage (mV) whose upward crossing
// counts as a spike.
const DefaultSpikeThreshold = 0.0

// SpikeThreshold returns the spike level of p on the reported voltage axis.
// Models whose state is not in millivolts supply their own.
func SpikeThreshold(p Params) float64 {
	if t, ok := p.(interface{ SpikeThreshold() float64 }); ok {
		return t.SpikeThreshold()
	}
	return DefaultSpikeThreshold
}
