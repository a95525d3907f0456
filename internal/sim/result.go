package sim

import "sort"

// newResult pre-sizes every trace to steps samples.
func newResult(steps int, readout Readout) *Result {
	r := &Result{
		Time:    make([]float64, steps),
		Voltage: make([]float64, steps),
		Current: make([]float64, steps),
		Metrics: make(map[string]float64),
	}
	if readout != nil {
		gates := readout.Gates()
		if len(gates) > 0 {
			r.Gating = make(map[string][]float64, len(gates))
			for _, g := range gates {
				r.Gating[g.Name] = make([]float64, steps)
			}
		}
	}
	return r
}

func (r *Result) record(i int, t, v, current float64, x State, readout Readout) {
	r.Time[i] = t
	r.Voltage[i] = v
	r.Current[i] = current
	if readout == nil {
		return
	}
	for _, g := range readout.Gates() {
		r.Gating[g.Name][i] = x[g.Index]
	}
}

// GateNames returns the recorded auxiliary variable names in sorted order.
func (r *Result) GateNames() []string {
	if len(r.Gating) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Gating))
	for name := range r.Gating {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
