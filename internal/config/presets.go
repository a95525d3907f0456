package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

const DefaultPreset = "default"

// Presets are named overrides on top of each model's defaults.
var Presets = map[models.ID]map[string]map[string]float64{
	models.HodgkinHuxley: {
		DefaultPreset:  {},
		"subthreshold": {"stimulusCurrent": 2},
		"repetitive": {
			"duration": 60, "stimulusCurrent": 10,
			"stimulusStart": 5, "stimulusDuration": 50,
		},
	},
	models.FitzHughNagumo: {
		DefaultPreset: {},
		"oscillating": {
			"duration": 200, "stimulusCurrent": 0.5,
			"stimulusStart": 0, "stimulusDuration": 200,
		},
	},
	models.IntegrateFire: {
		DefaultPreset: {},
		"tonic": {
			"stimulusCurrent": 3,
			"stimulusStart":   10, "stimulusDuration": 80,
		},
	},
	models.MorrisLecar: {
		DefaultPreset:  {},
		"subthreshold": {"stimulusCurrent": 20},
	},
}

// GetPreset returns a fresh parameter set for the named preset.
func GetPreset(id models.ID, preset string) (models.Params, error) {
	modelPresets, ok := Presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sim.ErrUnknownModel, id)
	}
	overrides, ok := modelPresets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", preset, id, ListPresets(id))
	}

	p, err := models.Defaults(id)
	if err != nil {
		return nil, err
	}
	if err := Apply(p, overrides); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPresets returns the preset names of id in sorted order.
func ListPresets(id models.ID) []string {
	modelPresets, ok := Presets[id]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
