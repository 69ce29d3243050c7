// Package config provides configuration loading and access for the simulation.
//
// Unlike the reference layout this package is adapted from, Config is never stored
// in a package-level variable: every value is returned from Load and threaded
// explicitly by the caller, so two simulation instances never share configuration
// state.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ecosimocean/biome"
	"github.com/pthm-cable/ecosimocean/species"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvironmentGenerationConfig controls biome map and refuge placement at construction time.
type EnvironmentGenerationConfig struct {
	DeepSeaDepthFraction   float64 `yaml:"deep_sea_depth_fraction"`
	PolarZoneWidthFraction float64 `yaml:"polar_zone_width_fraction"`
	NumCoralReefs          int     `yaml:"num_coral_reefs"`
	ReefMaxDepthFraction   float64 `yaml:"reef_max_depth_fraction"`
	NumRefuges             int     `yaml:"num_refuges"`
	RefugeSize             int     `yaml:"refuge_size"`
}

func (e EnvironmentGenerationConfig) biomeConfig() biome.GenerationConfig {
	return biome.GenerationConfig{
		DeepSeaDepthFraction:   e.DeepSeaDepthFraction,
		PolarZoneWidthFraction: e.PolarZoneWidthFraction,
		NumCoralReefs:          e.NumCoralReefs,
		ReefMaxDepthFraction:   e.ReefMaxDepthFraction,
	}
}

// BiomeConfig exposes the biome.GenerationConfig derived from EnvironmentGeneration.
func (s SimConfig) BiomeConfig() biome.GenerationConfig {
	return s.EnvironmentGeneration.biomeConfig()
}

// SimConfig holds the simulation-wide parameters (§6, "Simulation:" group).
type SimConfig struct {
	GridWidth  int `yaml:"grid_width"`
	GridHeight int `yaml:"grid_height"`
	GridDepth  int `yaml:"grid_depth"`

	SimulationTicks      int `yaml:"simulation_ticks"`
	BootstrapPeriod      int `yaml:"bootstrap_period"`
	CleanupInterval      int `yaml:"cleanup_interval"`
	ThreatUpdateInterval int `yaml:"threat_update_interval"`

	InitialAgentCapacity int `yaml:"initial_agent_capacity"`
	AbsoluteMaxAgents    int `yaml:"absolute_max_agents"`

	InitialFoodDensity       float64 `yaml:"initial_food_density"`
	PlanktonDiffusionRate    float64 `yaml:"plankton_diffusion_rate"`
	PlanktonMaxGrowthRate    float64 `yaml:"plankton_max_growth_rate"`
	MarineSnowDecayRate      float64 `yaml:"marine_snow_decay_rate"`
	MarineSnowSinkingFactor  float64 `yaml:"marine_snow_sinking_factor"`
	SnowToPlanktonConversion float64 `yaml:"snow_to_plankton_conversion"`

	EventChance          float64 `yaml:"event_chance"`
	EventDuration        int     `yaml:"event_duration"`
	PlanktonBloomModifier float64 `yaml:"plankton_bloom_modifier"`
	DiseaseZoneModifier   float64 `yaml:"disease_zone_modifier"`

	RefugeHuntDebuff           float64 `yaml:"refuge_hunt_debuff"`
	LowPlanktonThreshold       float64 `yaml:"low_plankton_threshold"`
	BootstrapMetabolicModifier float64 `yaml:"bootstrap_metabolic_modifier"`

	EnvironmentGeneration EnvironmentGenerationConfig `yaml:"environment_generation"`

	InitialCounts map[string]int `yaml:"initial_counts"`
}

// Config is the fully-resolved configuration record handed to sim.Create.
// Fauna is resolved separately from Sim and Diet (see Load) because archetype
// inheritance needs the raw per-field YAML mapping, not a pre-decoded struct.
type Config struct {
	Sim   SimConfig   `yaml:"simulation"`
	Fauna FaunaConfig `yaml:"-"`
	Diet  DietConfig  `yaml:"diet"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Fauna archetype inheritance
// is resolved before Load returns, so the Config handed to callers already has
// every fauna entry fully materialized.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	var overrideData []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing config file: %w", err)
		}
		overrideData = data
	}

	fauna, err := resolveFauna(defaultsYAML, overrideData)
	if err != nil {
		return nil, err
	}
	cfg.Fauna = fauna

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the cross-references §7 calls out as fatal configuration errors:
// unknown species in diet or initial_*_count.
func (c *Config) validate() error {
	for predatorName, preyNames := range c.Diet {
		if _, ok := species.Parse(predatorName); !ok {
			return fmt.Errorf("%w: diet predator %q", ErrUnknownSpecies, predatorName)
		}
		for _, preyName := range preyNames {
			if _, ok := species.Parse(preyName); !ok {
				return fmt.Errorf("%w: diet prey %q", ErrUnknownSpecies, preyName)
			}
		}
	}
	for name := range c.Sim.InitialCounts {
		if _, ok := species.Parse(name); !ok {
			return fmt.Errorf("%w: initial_counts %q", ErrUnknownSpecies, name)
		}
	}
	for _, id := range species.All {
		if _, ok := c.Fauna[id.String()]; !ok {
			return fmt.Errorf("%w: fauna entry for %q", ErrMissingKey, id.String())
		}
	}
	return nil
}
