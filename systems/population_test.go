package systems

import (
	"testing"

	"github.com/pthm-cable/ecosimocean/biome"
	"github.com/pthm-cable/ecosimocean/environment"
	"github.com/pthm-cable/ecosimocean/species"
	"github.com/pthm-cable/ecosimocean/store"
)

func newTestEnv(seed int64) *environment.Environment {
	rng := testRNG(seed)
	return environment.New(10, 10, 5, environment.Params{
		InitialFoodDensity:       0.8,
		PlanktonDiffusionRate:    0.05,
		PlanktonMaxGrowthRate:    0.1,
		MarineSnowDecayRate:      0.99,
		MarineSnowSinkingFactor:  0.9,
		SnowToPlanktonConversion: 0.01,
		EventChance:              0,
		EventDuration:            1,
		PlanktonBloomModifier:    2.0,
		DiseaseZoneModifier:      1.5,
		Generation: biome.GenerationConfig{
			DeepSeaDepthFraction:   0.66,
			PolarZoneWidthFraction: 0.25,
			NumCoralReefs:          1,
			ReefMaxDepthFraction:   0.2,
		},
		NumRefuges: 2,
		RefugeSize: 1,
	}, rng)
}

func TestMetabolismAndAging_BootstrapSkipsAgeIncrement(t *testing.T) {
	fauna := testFauna()
	p := NewPopulation(fauna)
	s := newTestStore(4)
	env := newTestEnv(1)
	rng := testRNG(10)

	i := s.Spawn(species.Zooplankton, store.Vec3{X: 1, Y: 1, Z: 1}, 20, rng)
	startAge := s.Age[i]

	p.MetabolismAndAging(s, env, 0.5, true)

	if s.Age[i] != startAge {
		t.Errorf("age changed during bootstrap: %d -> %d", startAge, s.Age[i])
	}
}

func TestMetabolismAndAging_AgesOutsideBootstrap(t *testing.T) {
	fauna := testFauna()
	p := NewPopulation(fauna)
	s := newTestStore(4)
	env := newTestEnv(2)
	rng := testRNG(11)

	i := s.Spawn(species.Zooplankton, store.Vec3{X: 1, Y: 1, Z: 1}, 20, rng)
	p.MetabolismAndAging(s, env, 0.5, false)

	if s.Age[i] != 1 {
		t.Errorf("Age = %d, want 1 after one non-bootstrap tick", s.Age[i])
	}
	if s.Energy[i] >= 20 {
		t.Error("energy should have decreased from metabolic cost")
	}
}

func TestOvercrowding_KillsAboveCarryingCapacity(t *testing.T) {
	fauna := testFauna()
	fauna[species.Zooplankton].CarryingCapacityThreshold = 2
	fauna[species.Zooplankton].StarvationChance = 1.0
	p := NewPopulation(fauna)
	s := newTestStore(8)
	rng := testRNG(12)

	for i := 0; i < 5; i++ {
		s.Spawn(species.Zooplankton, store.Vec3{X: 3, Y: 3, Z: 3}, 20, rng)
	}

	p.Overcrowding(s, rng)

	alive := s.CountSpecies(species.Zooplankton)
	if alive != 0 {
		t.Errorf("alive zooplankton = %d, want 0 (starvation_chance=1.0 kills every agent in an overcrowded cell)", alive)
	}
}

func TestDeaths_KillsNonPositiveEnergyAndOverAge(t *testing.T) {
	fauna := testFauna()
	p := NewPopulation(fauna)
	s := newTestStore(4)
	rng := testRNG(13)

	starved := s.Spawn(species.Zooplankton, store.Vec3{}, 0, rng)
	aged := s.Spawn(species.Zooplankton, store.Vec3{}, 20, rng)
	s.Age[aged] = fauna[species.Zooplankton].MaxLifespan
	healthy := s.Spawn(species.Zooplankton, store.Vec3{}, 20, rng)

	p.Deaths(s)

	if s.Alive[starved] {
		t.Error("agent with energy<=0 should be dead")
	}
	if s.Alive[aged] {
		t.Error("agent at max_lifespan should be dead")
	}
	if !s.Alive[healthy] {
		t.Error("healthy agent should remain alive")
	}
}

func TestReproduction_HalvesParentEnergyOnlyOnSuccessfulSpawn(t *testing.T) {
	fauna := testFauna()
	p := NewPopulation(fauna)
	s := store.New(1, 1) // capacity 1: no room for an offspring
	rng := testRNG(14)

	parent := s.Spawn(species.Zooplankton, store.Vec3{}, 100, rng)
	before := s.Energy[parent]

	p.Reproduction(s, rng)

	if s.Energy[parent] != before {
		t.Errorf("parent energy changed to %v despite Spawn having no room (want unchanged %v)", s.Energy[parent], before)
	}
}

func TestReproduction_EligibleParentSpawnsAndHalves(t *testing.T) {
	fauna := testFauna()
	p := NewPopulation(fauna)
	s := store.New(4, 16)
	rng := testRNG(15)

	parent := s.Spawn(species.Zooplankton, store.Vec3{X: 1, Y: 1, Z: 1}, 100, rng)
	before := s.Energy[parent]
	countBefore := s.CountSpecies(species.Zooplankton)

	p.Reproduction(s, rng)

	countAfter := s.CountSpecies(species.Zooplankton)
	if countAfter != countBefore+1 {
		t.Fatalf("live zooplankton count = %d, want %d", countAfter, countBefore+1)
	}
	if s.Energy[parent] != before/2 {
		t.Errorf("parent energy = %v, want halved %v", s.Energy[parent], before/2)
	}
}
