package systems

import (
	"math/rand"

	"github.com/pthm-cable/ecosimocean/config"
	"github.com/pthm-cable/ecosimocean/species"
)

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// testFauna builds a minimal, fully-populated FaunaParams for unit tests that
// don't need config.Load's YAML machinery.
func testFauna() FaunaParams {
	return FaunaParams{
		species.Zooplankton: &config.FaunaEntry{
			Size: 1, InitialEnergy: 20, MetabolicRate: 0.05, ReproductionThreshold: 30,
			MaxLifespan: 80, EatingRate: 0.15, EnergyConversionFactor: 8,
			PlanktonSatiationPeriod: 2, CarryingCapacityThreshold: 40,
			StarvationChance: 0.1, DiseaseThreshold: 4000, DiseaseChance: 0.01,
			ReproductionFearDebuff: 1.0,
		},
		species.SmallFish: &config.FaunaEntry{
			Size: 5, InitialEnergy: 60, MetabolicRate: 0.3, ReproductionThreshold: 120,
			MaxLifespan: 300, EatingRate: 0.4, EnergyConversionFactor: 6,
			PlanktonSatiationPeriod: 3, CarryingCapacityThreshold: 15,
			StarvationChance: 0.05, DiseaseThreshold: 300, DiseaseChance: 0.02,
			MaturityAge: 20, ReproductionFearDebuff: 0.6,
			VisionRadius: 10, PredationRange: 2, HuntSuccessChance: 0.4,
			SatiationPeriod: 5, ReproductionCooldownPeriod: 15,
			MaxEnergyTransferEfficiency: 0.8, OptimalPreySize: 1, PreySizeTolerance: 1.5,
			JuvenileHuntModifier: 0.4, JuvenileMetabolicModifier: 0.7,
			RefugeVisionModifier: 0.3, PreyScarcityThreshold: 3,
		},
		species.Crab: &config.FaunaEntry{
			Size: 3, InitialEnergy: 40, MetabolicRate: 0.1, ReproductionThreshold: 80,
			MaxLifespan: 400, EatingRate: 0.5, EnergyConversionFactor: 5,
			CarryingCapacityThreshold: 10, StarvationChance: 0.02,
			DiseaseThreshold: 200, DiseaseChance: 0.01, ReproductionFearDebuff: 1.0,
		},
		species.Seal: &config.FaunaEntry{
			Size: 25, InitialEnergy: 200, MetabolicRate: 0.8, ReproductionThreshold: 350,
			MaxLifespan: 1200, EatingRate: 1.0, EnergyConversionFactor: 4,
			CarryingCapacityThreshold: 6, StarvationChance: 0.03,
			DiseaseThreshold: 60, DiseaseChance: 0.01, MaturityAge: 60,
			ReproductionFearDebuff: 1.0, VisionRadius: 18, PredationRange: 3,
			HuntSuccessChance: 0.5, SatiationPeriod: 20, ReproductionCooldownPeriod: 60,
			MaxEnergyTransferEfficiency: 0.7, OptimalPreySize: 5, PreySizeTolerance: 4,
			JuvenileHuntModifier: 0.3, JuvenileMetabolicModifier: 0.6,
			RefugeVisionModifier: 0.4,
		},
		species.SeaTurtle: &config.FaunaEntry{
			Size: 15, InitialEnergy: 150, MetabolicRate: 0.15, ReproductionThreshold: 300,
			MaxLifespan: 2000, EatingRate: 0.3, EnergyConversionFactor: 7,
			PlanktonSatiationPeriod: 3, CarryingCapacityThreshold: 8,
			StarvationChance: 0.01, DiseaseThreshold: 100, DiseaseChance: 0.005,
			MaturityAge: 100, ReproductionFearDebuff: 0.8,
		},
	}
}

func testDiet() Diet {
	return Diet{
		species.SmallFish: {species.Zooplankton},
		species.Seal:      {species.SmallFish, species.Crab, species.SeaTurtle},
	}
}
