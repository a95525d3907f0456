package experiment

import (
	"github.com/san-kum/spikesim/internal/integrators"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

// ListModels returns the supported models in catalogue order.
func ListModels() []models.Descriptor {
	return models.List()
}

// DefaultParameters returns a fresh default parameter set for id, or an
// error wrapping sim.ErrUnknownModel.
func DefaultParameters(id models.ID) (models.Params, error) {
	return models.Defaults(id)
}

// Simulate validates p and integrates it with forward Euler. The returned
// traces all have floor(duration/timeStep) samples.
func Simulate(p models.Params) (*sim.Result, error) {
	exp, err := New(p)
	if err != nil {
		return nil, err
	}
	return exp.Run()
}

// Analyze is Simulate with the default run metrics attached.
func Analyze(p models.Params) (*sim.Result, error) {
	exp, err := New(p)
	if err != nil {
		return nil, err
	}
	exp.Setup(DefaultMetrics(p)...)
	return exp.Run()
}

// Experiment is one configured run. It is not safe for concurrent use; build
// one per goroutine.
type Experiment struct {
	params    models.Params
	system    models.System
	simulator *sim.Simulator
}

// New validates p and prepares a simulator for it. The parameter set is
// copied, so later edits to p do not affect the experiment.
func New(p models.Params) (*Experiment, error) {
	if p == nil {
		return nil, &sim.ParamError{Field: "params", Reason: "missing"}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	params := models.Clone(p)
	sys := params.System()
	return &Experiment{
		params:    params,
		system:    sys,
		simulator: sim.New(sys, integrators.NewEuler(), params.Common().Stimulus()),
	}, nil
}

// Setup attaches metrics to the run.
func (e *Experiment) Setup(metrics ...sim.Metric) {
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
}

// Drive replaces the stimulus pulse described by the parameters with c.
func (e *Experiment) Drive(c sim.Controller) {
	e.simulator.SetController(c)
}

// System returns the dynamics the experiment integrates.
func (e *Experiment) System() models.System {
	return e.system
}

func (e *Experiment) Run() (*sim.Result, error) {
	return e.simulator.Run(e.system.InitialState(), e.params.Common().Config())
}

// Params returns the experiment's private copy of its parameters.
func (e *Experiment) Params() models.Params {
	return models.Clone(e.params)
}
