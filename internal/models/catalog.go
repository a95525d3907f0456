package models

import (
	"fmt"

	"github.com/san-kum/spikesim/internal/sim"
)

// Descriptor is the catalogue entry for one model.
type Descriptor struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var catalog = []Descriptor{
	{
		ID:          HodgkinHuxley,
		Name:        "Hodgkin-Huxley Model",
		Description: "The classic biophysical model describing ionic mechanisms underlying action potentials",
		Category:    "Biophysical",
	},
	{
		ID:          FitzHughNagumo,
		Name:        "FitzHugh-Nagumo Model",
		Description: "Simplified two-variable model capturing essential dynamics of excitable membranes",
		Category:    "Phenomenological",
	},
	{
		ID:          IntegrateFire,
		Name:        "Integrate-and-Fire Model",
		Description: "Simple yet powerful model focusing on membrane integration and spike generation",
		Category:    "Abstract",
	},
	{
		ID:          MorrisLecar,
		Name:        "Morris-Lecar Model",
		Description: "Two-variable model describing calcium and potassium dynamics in excitable membranes",
		Category:    "Biophysical",
	},
}

// List returns the catalogue in a fixed order.
func List() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id ID) (Descriptor, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", sim.ErrUnknownModel, id)
}

type defaulter interface {
	Params
	Defaults()
}

// Defaults returns a fresh default parameter set for id.
func Defaults(id ID) (Params, error) {
	p, err := New(id)
	if err != nil {
		return nil, err
	}
	p.(defaulter).Defaults()
	return p, nil
}
