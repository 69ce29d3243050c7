package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FaunaEntry holds the per-species tuning parameters (§6, "Per species:" group).
// Fields only meaningful for predator species are simply left zero for non-predators.
type FaunaEntry struct {
	Size                      float64 `yaml:"size"`
	InitialEnergy             float64 `yaml:"initial_energy"`
	MetabolicRate             float64 `yaml:"metabolic_rate"`
	ReproductionThreshold     float64 `yaml:"reproduction_threshold"`
	MaxLifespan               int     `yaml:"max_lifespan"`
	EatingRate                float64 `yaml:"eating_rate"`
	EnergyConversionFactor    float64 `yaml:"energy_conversion_factor"`
	PlanktonSatiationPeriod   int     `yaml:"plankton_satiation_period"`
	CarryingCapacityThreshold int     `yaml:"carrying_capacity_threshold"`
	StarvationChance          float64 `yaml:"starvation_chance"`
	DiseaseThreshold          int     `yaml:"disease_threshold"`
	DiseaseChance             float64 `yaml:"disease_chance"`
	MaturityAge               int     `yaml:"maturity_age"`
	ReproductionFearDebuff    float64 `yaml:"reproduction_fear_debuff"`

	// Predator-only fields.
	VisionRadius                float64  `yaml:"vision_radius"`
	PredationRange               float64  `yaml:"predation_range"`
	HuntSuccessChance             float64  `yaml:"hunt_success_chance"`
	SatiationPeriod               int      `yaml:"satiation_period"`
	ReproductionCooldownPeriod    int      `yaml:"reproduction_cooldown_period"`
	MaxEnergyTransferEfficiency   float64  `yaml:"max_energy_transfer_efficiency"`
	OptimalPreySize               float64  `yaml:"optimal_prey_size"`
	PreySizeTolerance             float64  `yaml:"prey_size_tolerance"`
	JuvenileHuntModifier           float64  `yaml:"juvenile_hunt_modifier"`
	JuvenileMetabolicModifier      float64  `yaml:"juvenile_metabolic_modifier"`
	RefugeVisionModifier           float64  `yaml:"refuge_vision_modifier"`
	PreyScarcityThreshold          int      `yaml:"prey_scarcity_threshold"`
	HungerThreshold                *float64 `yaml:"hunger_threshold,omitempty"`
}

// EffectiveHungerThreshold resolves the §9 open question: hunger_threshold defaults
// to reproduction_threshold/2 unless the fauna entry sets it explicitly.
func (e FaunaEntry) EffectiveHungerThreshold() float64 {
	if e.HungerThreshold != nil {
		return *e.HungerThreshold
	}
	return e.ReproductionThreshold / 2
}

// FaunaConfig maps a species name to its fully-resolved entry.
type FaunaConfig map[string]*FaunaEntry

// rawFaunaDoc unmarshals only the "fauna" section of a config file, keeping each
// entry as a generic field map so archetype inheritance can be resolved before
// any entry is decoded into the typed FaunaEntry struct.
type rawFaunaDoc struct {
	Fauna map[string]map[string]any `yaml:"fauna"`
}

// resolveFauna merges the default and override fauna sections, resolves single-level
// textual archetype inheritance ("archetype" key, §6), and decodes the result into
// a FaunaConfig with one entry per fauna section entry, archetype-only entries such
// as smallfish_base included. An override entry replaces only the keys it sets.
func resolveFauna(defaultsRaw, overrideRaw []byte) (FaunaConfig, error) {
	var base rawFaunaDoc
	if err := yaml.Unmarshal(defaultsRaw, &base); err != nil {
		return nil, fmt.Errorf("config: parsing embedded fauna defaults: %w", err)
	}

	merged := make(map[string]map[string]any, len(base.Fauna))
	for name, fields := range base.Fauna {
		merged[name] = fields
	}

	if len(overrideRaw) > 0 {
		var override rawFaunaDoc
		if err := yaml.Unmarshal(overrideRaw, &override); err != nil {
			return nil, fmt.Errorf("config: parsing fauna overrides: %w", err)
		}
		for name, fields := range override.Fauna {
			existing, ok := merged[name]
			if !ok {
				merged[name] = fields
				continue
			}
			combined := make(map[string]any, len(existing)+len(fields))
			for k, v := range existing {
				combined[k] = v
			}
			for k, v := range fields {
				combined[k] = v
			}
			merged[name] = combined
		}
	}

	resolved := make(FaunaConfig, len(merged))
	for name := range merged {
		fields, err := mergeArchetype(name, merged, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		entry, err := decodeFaunaFields(fields)
		if err != nil {
			return nil, fmt.Errorf("config: decoding fauna entry %q: %w", name, err)
		}
		resolved[name] = entry
	}
	return resolved, nil
}

func mergeArchetype(name string, all map[string]map[string]any, visiting map[string]bool) (map[string]any, error) {
	if visiting[name] {
		return nil, fmt.Errorf("%w: cycle involving %q", ErrUnresolvedArchetype, name)
	}
	fields, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedArchetype, name)
	}

	parentName, hasParent := fields["archetype"].(string)
	if !hasParent || parentName == "" {
		return fields, nil
	}

	visiting[name] = true
	parentFields, err := mergeArchetype(parentName, all, visiting)
	if err != nil {
		return nil, err
	}
	delete(visiting, name)

	merged := make(map[string]any, len(parentFields)+len(fields))
	for k, v := range parentFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	delete(merged, "archetype")
	return merged, nil
}

func decodeFaunaFields(fields map[string]any) (*FaunaEntry, error) {
	data, err := yaml.Marshal(fields)
	if err != nil {
		return nil, err
	}
	entry := &FaunaEntry{}
	if err := yaml.Unmarshal(data, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
