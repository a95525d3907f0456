package sim

type Simulator struct {
	dyn        Dynamics
	integrator Integrator
	controller Controller
	metrics    []Metric
}

func New(dyn Dynamics, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// SetController replaces the input that drives the run.
func (s *Simulator) SetController(c Controller) { s.controller = c }

// Run performs floor(cfg.Duration/cfg.Dt) steps from x0. Sample i is recorded
// from the state before step i advances it, so the final state reached by the
// last update is recorded and never advanced further.
func (s *Simulator) Run(x0 State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, &ParamError{Field: "initialState", Value: float64(len(x0)), Reason: "dimension mismatch"}
	}
	if !x0.IsValid() {
		return nil, &ParamError{Field: "initialState", Value: x0[0], Reason: "must be finite"}
	}

	steps := cfg.Steps()
	readout, _ := s.dyn.(Readout)
	resetter, _ := s.dyn.(Resetter)
	result := newResult(steps, readout)

	for _, m := range s.metrics {
		m.Reset()
	}
	if r, ok := s.controller.(interface{ Reset() }); ok {
		r.Reset()
	}

	x := x0.Clone()
	dt := cfg.Dt

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		u := s.controller.Compute(x, t)

		v := x[0]
		if readout != nil {
			v = readout.Voltage(x)
		}
		current := 0.0
		if len(u) > 0 {
			current = u[0]
		}
		result.record(i, t, v, current, x, readout)

		for _, m := range s.metrics {
			m.Observe(v, current, t)
		}

		if i < steps-1 {
			x = s.integrator.Step(s.dyn, x, u, t, dt)
			if resetter != nil {
				x = resetter.Reset(x)
			}
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
