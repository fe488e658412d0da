package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	DefaultDuration = 10.0
	DefaultKp       = 1.0
	DefaultKi       = 0.1
	DefaultKd       = 0.05
)

type Config struct {
	Plant    string      `yaml:"plant"`
	K        float64     `yaml:"k"`
	Tau      float64     `yaml:"tau"`
	Wn       float64     `yaml:"wn"`
	Zeta     float64     `yaml:"zeta"`
	Gains    GainsConfig `yaml:"gains"`
	Dt       float64     `yaml:"dt"`
	Duration float64     `yaml:"duration"`
}

type GainsConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

func DefaultConfig() *Config {
	return &Config{
		Plant:    plant.FirstOrder.String(),
		K:        plant.DefaultGain,
		Tau:      plant.DefaultTau,
		Wn:       plant.DefaultWn,
		Zeta:     plant.DefaultZeta,
		Gains:    GainsConfig{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd},
		Dt:       sim.DefaultDt,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// PlantParams maps the config onto the tagged parameter set for the
// selected plant kind.
func (c *Config) PlantParams() (plant.Params, error) {
	kind, err := plant.ParseKind(c.Plant)
	if err != nil {
		return plant.Params{}, err
	}
	switch kind {
	case plant.SecondOrder:
		return plant.NewSecondOrder(c.K, c.Wn, c.Zeta), nil
	case plant.Integrator:
		return plant.NewIntegrator(c.K), nil
	default:
		return plant.NewFirstOrder(c.K, c.Tau), nil
	}
}

// SimConfig builds a validated simulation config.
func (c *Config) SimConfig() (sim.Config, error) {
	p, err := c.PlantParams()
	if err != nil {
		return sim.Config{}, err
	}
	if err := p.Validate(); err != nil {
		return sim.Config{}, err
	}
	if c.Dt <= 0 {
		return sim.Config{}, fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return sim.Config{}, fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	return sim.Config{
		Plant:    p,
		Kp:       c.Gains.Kp,
		Ki:       c.Gains.Ki,
		Kd:       c.Gains.Kd,
		Duration: c.Duration,
		Dt:       c.Dt,
	}, nil
}
