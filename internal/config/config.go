package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spikesim/internal/controllers"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

const DefaultModel = models.HodgkinHuxley

// Config is a run file. Without a preset, Params must name every field of
// the model; with one, Params overrides the preset's values. A file with
// neither uses the default preset.
type Config struct {
	Model  string             `yaml:"model"`
	Preset string             `yaml:"preset,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`

	Protocol *Protocol `yaml:"protocol,omitempty"`
}

// Protocol selects how the stimulus is delivered. Unset settings take the
// values of controllers.DefaultOptions.
type Protocol struct {
	Kind   controllers.Protocol `yaml:"kind"`
	Period float64              `yaml:"period,omitempty"`
	Count  int                  `yaml:"count,omitempty"`
	Target *float64             `yaml:"target,omitempty"`
	Gain   float64              `yaml:"gain,omitempty"`
	Ki     float64              `yaml:"ki,omitempty"`
}

func (p *Protocol) Options() controllers.Options {
	opts := controllers.DefaultOptions()
	if p == nil {
		return opts
	}
	if p.Period != 0 {
		opts.Period = p.Period
	}
	opts.Count = p.Count
	if p.Target != nil {
		opts.Target = *p.Target
	}
	if p.Gain != 0 {
		opts.Gain = p.Gain
	}
	if p.Ki != 0 {
		opts.Ki = p.Ki
	}
	return opts
}

// Controller builds the drive for params. A nil protocol is the single
// stimulus pulse.
func (p *Protocol) Controller(params models.Params) (sim.Controller, error) {
	kind := controllers.Pulse
	if p != nil {
		kind = p.Kind
	}
	return controllers.ForParams(kind, params, p.Options())
}

func DefaultConfig() *Config {
	return &Config{
		Model:  string(DefaultModel),
		Preset: DefaultPreset,
	}
}

// FromParams captures p as a complete, preset-free run file.
func FromParams(p models.Params) *Config {
	return &Config{
		Model:  string(p.Model()),
		Params: models.Values(p),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a run file, rejecting keys outside the schema.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("config: model is required")
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve builds and validates the parameter set the file describes.
func (c *Config) Resolve() (models.Params, error) {
	id := models.ID(c.Model)
	if _, err := models.Lookup(id); err != nil {
		return nil, err
	}

	preset := c.Preset
	if preset == "" {
		if len(c.Params) > 0 {
			return models.FromValues(id, c.Params)
		}
		preset = DefaultPreset
	}

	p, err := GetPreset(id, preset)
	if err != nil {
		return nil, err
	}
	if err := Apply(p, c.Params); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseOverrides reads name=value pairs as given on the command line.
func ParseOverrides(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("override %q: expected name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", pair, err)
		}
		out[name] = v
	}
	return out, nil
}

// Apply overrides named fields of p.
func Apply(p models.Params, overrides map[string]float64) error {
	for name, v := range overrides {
		if err := models.Set(p, name, v); err != nil {
			return err
		}
	}
	return nil
}
