package sim

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decayDynamics struct{}

func (d *decayDynamics) Derivative(x State, u Control, time float64) State {
	return State{-x[0] + u[0]}
}

func (d *decayDynamics) StateDim() int   { return 1 }
func (d *decayDynamics) ControlDim() int { return 1 }

type gatedDynamics struct {
	decayDynamics
}

func (g *gatedDynamics) StateDim() int { return 2 }

func (g *gatedDynamics) Derivative(x State, u Control, time float64) State {
	return State{-x[0] + u[0], 1}
}

func (g *gatedDynamics) Voltage(x State) float64 { return 10 * x[0] }
func (g *gatedDynamics) Gates() []Gate           { return []Gate{{Name: "g", Index: 1}} }

type clampDynamics struct {
	decayDynamics
}

func (c *clampDynamics) Derivative(x State, u Control, time float64) State {
	return State{1}
}

func (c *clampDynamics) Reset(x State) State {
	if x[0] >= 0.5 {
		return State{0}
	}
	return x
}

type testIntegrator struct{}

func (t *testIntegrator) Step(dyn Dynamics, x State, u Control, time float64, dt float64) State {
	dx := dyn.Derivative(x, u, time)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	cfg := Config{Dt: 0.1, Duration: 1.0}

	result, err := sim.Run(State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Len() != 10 {
		t.Fatalf("expected 10 samples, got %d", result.Len())
	}
	if len(result.Voltage) != 10 || len(result.Current) != 10 {
		t.Fatalf("misaligned traces: %d voltage, %d current", len(result.Voltage), len(result.Current))
	}

	if result.Voltage[0] != 1.0 {
		t.Errorf("first sample must be the initial state, got %f", result.Voltage[0])
	}

	expected := math.Pow(0.9, 9)
	if math.Abs(result.Voltage[9]-expected) > 1e-12 {
		t.Errorf("expected last sample %.6f, got %.6f", expected, result.Voltage[9])
	}
	if result.Gating != nil {
		t.Error("expected no gating traces without a Readout")
	}
}

func TestSimulatorTimeIsMultiplied(t *testing.T) {
	sim := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	cfg := Config{Dt: 0.01, Duration: 50}
	result, err := sim.Run(State{0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Len() != cfg.Steps() {
		t.Fatalf("expected %d samples, got %d", cfg.Steps(), result.Len())
	}
	for i, tm := range result.Time {
		if tm != float64(i)*cfg.Dt {
			t.Fatalf("time[%d] = %v, want %v", i, tm, float64(i)*cfg.Dt)
		}
	}
}

func TestSimulatorStimulusWindow(t *testing.T) {
	stim := NewStimulus(2.5, 0.3, 0.2)
	sim := New(&decayDynamics{}, &testIntegrator{}, stim)

	result, err := sim.Run(State{0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, tm := range result.Time {
		want := 0.0
		if tm >= stim.Start && tm <= stim.Start+stim.Duration {
			want = stim.Amplitude
		}
		if result.Current[i] != want {
			t.Errorf("current[%d] at t=%v = %v, want %v", i, tm, result.Current[i], want)
		}
	}
}

func TestSimulatorReadout(t *testing.T) {
	sim := New(&gatedDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	result, err := sim.Run(State{1, 0}, Config{Dt: 0.5, Duration: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Voltage[0] != 10 {
		t.Errorf("expected scaled voltage 10, got %f", result.Voltage[0])
	}
	g, ok := result.Gating["g"]
	if !ok {
		t.Fatal("gating trace g missing")
	}
	if len(g) != result.Len() {
		t.Fatalf("gating trace length %d, want %d", len(g), result.Len())
	}
	for i, want := range []float64{0, 0.5, 1, 1.5} {
		if g[i] != want {
			t.Errorf("g[%d] = %v, want %v", i, g[i], want)
		}
	}
	if names := result.GateNames(); len(names) != 1 || names[0] != "g" {
		t.Errorf("GateNames() = %v", names)
	}
}

func TestSimulatorReset(t *testing.T) {
	sim := New(&clampDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	result, err := sim.Run(State{0}, Config{Dt: 0.25, Duration: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, want := range []float64{0, 0.25, 0, 0.25, 0, 0.25, 0, 0.25} {
		if result.Voltage[i] != want {
			t.Errorf("voltage[%d] = %v, want %v", i, result.Voltage[i], want)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"infinite duration", Config{Dt: 0.1, Duration: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sim.Run(State{1.0}, tt.cfg)
			if !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
			if result != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestSimulatorInvalidInitialState(t *testing.T) {
	sim := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	if _, err := sim.Run(State{1, 2}, Config{Dt: 0.1, Duration: 1}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected dimension mismatch to be rejected, got %v", err)
	}
	if _, err := sim.Run(State{math.NaN()}, Config{Dt: 0.1, Duration: 1}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected NaN initial state to be rejected, got %v", err)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(v, i, time float64) {
	t.count++
	t.sum += v
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSweep(t *testing.T) {
	results, err := Sweep(context.Background(), 8, 3, func(i int) (*Result, error) {
		s := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(float64(i), 0, 1))
		return s.Run(State{0}, Config{Dt: 0.1, Duration: 1})
	})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Current[0] != float64(i) {
			t.Errorf("result %d out of order: current %v", i, r.Current[0])
		}
	}
}

func TestSweepError(t *testing.T) {
	_, err := Sweep(context.Background(), 4, 0, func(i int) (*Result, error) {
		s := New(&decayDynamics{}, &testIntegrator{}, NewStimulus(0, 0, 0))
		dt := 0.1
		if i == 2 {
			dt = 0
		}
		return s.Run(State{0}, Config{Dt: dt, Duration: 1})
	})
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}
