package environment

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/ecosimocean/biome"
)

func testParams() Params {
	return Params{
		InitialFoodDensity:       0.8,
		PlanktonDiffusionRate:    0.05,
		PlanktonMaxGrowthRate:    0.1,
		MarineSnowDecayRate:      0.99,
		MarineSnowSinkingFactor:  0.9,
		SnowToPlanktonConversion: 0.01,
		EventChance:              0.01,
		EventDuration:            3,
		PlanktonBloomModifier:    2.0,
		DiseaseZoneModifier:      1.5,
		Generation: biome.GenerationConfig{
			DeepSeaDepthFraction:   0.66,
			PolarZoneWidthFraction: 0.25,
			NumCoralReefs:          2,
			ReefMaxDepthFraction:   0.2,
		},
		NumRefuges: 5,
		RefugeSize: 2,
	}
}

func TestUpdate_PlanktonStaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	env := New(12, 12, 6, testParams(), rng)

	for tick := 0; tick < 100; tick++ {
		env.Update(rng)
		for i, p := range env.Plankton {
			if p < 0 || p > 1 {
				t.Fatalf("tick %d: plankton[%d] = %v, out of [0,1]", tick, i, p)
			}
		}
		for i, s := range env.MarineSnow {
			if s < 0 {
				t.Fatalf("tick %d: marine_snow[%d] = %v, want >= 0", tick, i, s)
			}
		}
	}
}

func TestDepositMarineSnow_RandomCellUnderLoadStaysNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	env := New(10, 10, 5, testParams(), rng)

	for tick := 0; tick < 50; tick++ {
		x, y, z := rng.Intn(env.W), rng.Intn(env.H), rng.Intn(env.D)
		env.DepositMarineSnow(x, y, z, rng.Float64()*2)
		env.Update(rng)
	}
	for i, s := range env.MarineSnow {
		if s < 0 {
			t.Fatalf("marine_snow[%d] = %v after repeated deposits, want >= 0", i, s)
		}
	}
	total := env.TotalMarineSnow()
	if total < 0 {
		t.Errorf("TotalMarineSnow() = %v, want >= 0", total)
	}
}

func TestDepositMarineSnow_OutOfRangeIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	env := New(5, 5, 5, testParams(), rng)
	before := env.TotalMarineSnow()
	env.DepositMarineSnow(-1, 0, 0, 5)
	env.DepositMarineSnow(0, 0, 100, 5)
	after := env.TotalMarineSnow()
	if before != after {
		t.Errorf("out-of-range deposit changed total marine snow: %v -> %v", before, after)
	}
}

func TestEvent_RevertsNutrientAndDiseaseRiskWhenTimerExpires(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	params := testParams()
	params.EventChance = 1.0
	params.EventDuration = 3
	env := New(10, 10, 5, params, rng)

	env.Update(rng) // tick 1: event starts and perturbs this tick
	kind, remaining := env.EventState()
	if kind == EventNone {
		t.Fatal("expected an event to start with event_chance=1.0")
	}
	if remaining != params.EventDuration {
		t.Errorf("ticks_remaining = %d, want %d", remaining, params.EventDuration)
	}

	for i := 0; i < params.EventDuration; i++ {
		env.Update(rng) // ticks 2..duration+1: the event winds down and reverts
	}

	for i := range env.CurrentNutrient {
		if env.CurrentNutrient[i] != env.BaseNutrient[i] {
			t.Fatalf("cell %d: CurrentNutrient %v != BaseNutrient %v after event reverted", i, env.CurrentNutrient[i], env.BaseNutrient[i])
		}
	}
	for i, risk := range env.DiseaseRisk {
		if risk != 1.0 {
			t.Fatalf("cell %d: DiseaseRisk = %v, want 1.0 after event reverted", i, risk)
		}
	}
}

func TestIndex_RoundTripsWithAt(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	env := New(7, 6, 4, testParams(), rng)
	for z := 0; z < env.D; z++ {
		for y := 0; y < env.H; y++ {
			for x := 0; x < env.W; x++ {
				i := env.Index(x, y, z)
				if i < 0 || i >= len(env.Plankton) {
					t.Fatalf("Index(%d,%d,%d) = %d out of range", x, y, z, i)
				}
				if env.BiomeMap.Cells[i] != env.BiomeMap.At(x, y, z) {
					t.Fatalf("Index(%d,%d,%d) = %d does not match the biome map's At addressing", x, y, z, i)
				}
			}
		}
	}
}

func TestBuildSunlightGradient_DecreasesWithDepth(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	env := New(4, 4, 5, testParams(), rng)
	for z := 1; z < env.D; z++ {
		if env.Sunlight[env.Index(0, 0, z)] >= env.Sunlight[env.Index(0, 0, z-1)] {
			t.Errorf("sunlight at depth %d should be less than at depth %d", z, z-1)
		}
	}
}
