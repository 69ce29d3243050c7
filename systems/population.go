package systems

import (
	"math/rand"

	"github.com/pthm-cable/ecosimocean/environment"
	"github.com/pthm-cable/ecosimocean/species"
	"github.com/pthm-cable/ecosimocean/store"
)

// Population runs metabolism/aging, overcrowding, disease, deaths, and reproduction,
// in that order, at the start of every tick (§4.6).
type Population struct {
	fauna FaunaParams
}

// NewPopulation constructs the population system over the resolved per-species config.
func NewPopulation(fauna FaunaParams) *Population {
	return &Population{fauna: fauna}
}

// MetabolismAndAging applies per-species metabolic cost scaled by the cell's
// metabolic modifier, bootstrap softening, and juvenile discount; decrements
// cooldown/satiation; and increments age outside the bootstrap period.
func (p *Population) MetabolismAndAging(s *store.Store, env *environment.Environment, bootstrapModifier float64, isBootstrap bool) {
	for i, alive := range s.Alive {
		if !alive {
			continue
		}
		entry := p.fauna[s.SpeciesID[i]]
		cell := env.Index(clampCoord(s.Position[i].X, env.W), clampCoord(s.Position[i].Y, env.H), clampCoord(s.Position[i].Z, env.D))
		rate := entry.MetabolicRate
		if isBootstrap {
			rate *= bootstrapModifier
		} else if entry.MaturityAge > 0 && s.Age[i] < entry.MaturityAge {
			rate *= entry.JuvenileMetabolicModifier
		}
		s.Energy[i] -= rate * env.MetabolicModifier[cell]

		if s.Cooldown[i] > 0 {
			s.Cooldown[i]--
		}
		if s.Satiation[i] > 0 {
			s.Satiation[i]--
		}
		if !isBootstrap {
			s.Age[i]++
		}
	}
}

// Overcrowding kills members of over-threshold cells with independent per-agent
// probability starvation_chance (§4.6).
func (p *Population) Overcrowding(s *store.Store, rng *rand.Rand) {
	for _, id := range species.All {
		entry := p.fauna[id]
		if entry.StarvationChance <= 0 {
			continue
		}
		counts := cellCounts(s, id)
		for i, alive := range s.Alive {
			if !alive || s.SpeciesID[i] != id {
				continue
			}
			if counts[cellKeyOf(s.Position[i])] <= entry.CarryingCapacityThreshold {
				continue
			}
			if rng.Float64() < entry.StarvationChance {
				s.Kill(i)
			}
		}
	}
}

// Disease kills members with independent probability disease_chance*disease_risk
// whenever the species' global live count exceeds disease_threshold (§4.6).
func (p *Population) Disease(s *store.Store, env *environment.Environment, rng *rand.Rand) {
	for _, id := range species.All {
		entry := p.fauna[id]
		if entry.DiseaseChance <= 0 {
			continue
		}
		if s.CountSpecies(id) <= entry.DiseaseThreshold {
			continue
		}
		for i, alive := range s.Alive {
			if !alive || s.SpeciesID[i] != id {
				continue
			}
			cell := env.Index(clampCoord(s.Position[i].X, env.W), clampCoord(s.Position[i].Y, env.H), clampCoord(s.Position[i].Z, env.D))
			chance := entry.DiseaseChance * env.DiseaseRisk[cell]
			if rng.Float64() < chance {
				s.Kill(i)
			}
		}
	}
}

// Deaths clears Alive for every agent with non-positive energy or an age at or
// beyond its species' max_lifespan (§4.6).
func (p *Population) Deaths(s *store.Store) {
	for i, alive := range s.Alive {
		if !alive {
			continue
		}
		entry := p.fauna[s.SpeciesID[i]]
		if s.Energy[i] <= 0 || s.Age[i] >= entry.MaxLifespan {
			s.Kill(i)
		}
	}
}

// Reproduction inserts offspring for every eligible parent, applying the local
// density cap, maturity gate, fear debuff, and cooldown gate of §4.6, then halves
// each parent's energy and resets cooldown where the species has one.
func (p *Population) Reproduction(s *store.Store, rng *rand.Rand) {
	eligible := make([]bool, s.Capacity)

	for _, id := range species.All {
		entry := p.fauna[id]
		counts := cellCounts(s, id)

		for i, alive := range s.Alive {
			if !alive || s.SpeciesID[i] != id {
				continue
			}
			if s.Energy[i] <= entry.ReproductionThreshold {
				continue
			}
			if entry.ReproductionCooldownPeriod > 0 && s.Cooldown[i] > 0 {
				continue
			}
			if entry.MaturityAge > 0 && s.Age[i] < entry.MaturityAge {
				continue
			}
			if counts[cellKeyOf(s.Position[i])] >= entry.CarryingCapacityThreshold {
				continue
			}
			if entry.ReproductionFearDebuff < 1.0 && s.Threatened[i] {
				if rng.Float64() < 1.0-entry.ReproductionFearDebuff {
					continue
				}
			}
			eligible[i] = true
		}
	}

	for i, want := range eligible {
		if !want {
			continue
		}
		entry := p.fauna[s.SpeciesID[i]]
		childEnergy := s.Energy[i] / 2
		if s.Spawn(s.SpeciesID[i], s.Position[i], childEnergy, rng) < 0 {
			continue // capacity ceiling reached; this offspring is silently dropped (§4.2)
		}
		s.Energy[i] = childEnergy
		if entry.ReproductionCooldownPeriod > 0 {
			s.Cooldown[i] = entry.ReproductionCooldownPeriod
		}
	}
}

func cellKeyOf(pos store.Vec3) [3]int {
	return [3]int{int(pos.X), int(pos.Y), int(pos.Z)}
}

func cellCounts(s *store.Store, id species.ID) map[[3]int]int {
	counts := make(map[[3]int]int)
	for i, alive := range s.Alive {
		if alive && s.SpeciesID[i] == id {
			counts[cellKeyOf(s.Position[i])]++
		}
	}
	return counts
}

func clampCoord(v float64, limit int) int {
	c := int(v)
	if c < 0 {
		c = 0
	} else if c >= limit {
		c = limit - 1
	}
	return c
}
