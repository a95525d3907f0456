package automation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
	"github.com/san-kum/spikesim/internal/storage"
)

const scenarioYAML = `
name: protocols
description: one pulse, then a silent control
steps:
  - name: pulse
    model: hodgkin-huxley
    save: true
  - model: morris-lecar
    preset: default
    params:
      duration: 20
    protocol:
      kind: "off"
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "protocols" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if !sc.Steps[0].Save || sc.Steps[1].Save {
		t.Error("save flags not parsed")
	}
	if sc.Steps[1].Params["duration"] != 20 {
		t.Error("inline params not parsed")
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []string{
		"name: empty\n",
		"name: x\nsteps:\n  - preset: default\n",
		"name: x\nsteps:\n  - model: hodgkin-huxley\n    colour: red\n",
	}
	for _, in := range tests {
		if _, err := ParseScenario([]byte(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, store)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Name != "pulse" || results[0].RunID == "" {
		t.Errorf("first step should be saved, got %+v", results[0])
	}
	if results[0].Result.Metrics["spike_count"] != 1 {
		t.Errorf("expected 1 spike, got %v", results[0].Result.Metrics["spike_count"])
	}

	if results[1].Name != "2-morris-lecar" || results[1].RunID != "" {
		t.Errorf("unexpected second step %+v", results[1])
	}
	if results[1].Result.Len() != 2000 {
		t.Errorf("expected 2000 samples, got %d", results[1].Result.Len())
	}
	for _, c := range results[1].Result.Current {
		if c != 0 {
			t.Fatal("stimulus should be off")
		}
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 stored run, got %d", len(runs))
	}
}

func TestRunScenarioValidatesFirst(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{}, {}}}
	sc.Steps[0].Model = "hodgkin-huxley"
	sc.Steps[1].Model = "hodgkin-huxley"
	sc.Steps[1].Preset = "default"
	sc.Steps[1].Params = map[string]float64{"timeStep": -1}

	results, err := RunScenario(context.Background(), sc, nil)
	if !errors.Is(err, sim.ErrInvalidParameters) {
		t.Fatalf("expected invalid parameters, got %v", err)
	}
	if len(results) != 0 {
		t.Error("no step should run when a later step is invalid")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base, err := models.Defaults(models.HodgkinHuxley)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &MonteCarloConfig{
		Base:      base,
		Jitter:    map[string]float64{"stimulusCurrent": 0.1, "gK": 0.05},
		NumTrials: 4,
		Seed:      7,
		Parallel:  2,
	}

	first, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	second, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}

	if len(first) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(first))
	}
	for i := range first {
		if first[i].TrialID != i {
			t.Errorf("trial %d out of order", i)
		}
		if first[i].Params["stimulusCurrent"] != second[i].Params["stimulusCurrent"] {
			t.Error("same seed should draw the same parameters")
		}
		if d := math.Abs(first[i].Params["stimulusCurrent"] - 10); d > 1 {
			t.Errorf("stimulusCurrent outside ±10%%: %f", first[i].Params["stimulusCurrent"])
		}
		if first[i].Params["gNa"] != 120 {
			t.Error("unjittered fields must keep their base value")
		}
	}

	spiking, silent := MonteCarloStats(first)
	if spiking+silent != 4 {
		t.Errorf("stats do not cover all trials: %d + %d", spiking, silent)
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	base, _ := models.Defaults(models.FitzHughNagumo)

	if _, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: base, NumTrials: 0}); err == nil {
		t.Error("expected error for zero trials")
	}
	_, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: base, NumTrials: 1, Jitter: map[string]float64{"gNa": 0.1}})
	if !errors.Is(err, sim.ErrInvalidParameters) {
		t.Errorf("expected invalid parameters for an unknown field, got %v", err)
	}
}
