package systems

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pthm-cable/ecosimocean/config"
	"github.com/pthm-cable/ecosimocean/environment"
	"github.com/pthm-cable/ecosimocean/spatial"
	"github.com/pthm-cable/ecosimocean/species"
	"github.com/pthm-cable/ecosimocean/store"
)

const baselineEnergyGain = 0.4

// Feeding runs plankton grazing, scavenging, and predation, in that order (§4.5).
type Feeding struct {
	fauna FaunaParams
	diet  Diet

	lowPlanktonThreshold float64
	refugeHuntDebuff     float64
}

// NewFeeding constructs the feeding system over resolved fauna config and diet table.
func NewFeeding(fauna FaunaParams, diet Diet, lowPlanktonThreshold, refugeHuntDebuff float64) *Feeding {
	return &Feeding{fauna: fauna, diet: diet, lowPlanktonThreshold: lowPlanktonThreshold, refugeHuntDebuff: refugeHuntDebuff}
}

// Plankton runs per-cell supply-arbitrated grazing for zooplankton, sea turtles, and
// eligible small fish (§4.5, "Plankton grazing").
func (f *Feeding) Plankton(s *store.Store, env *environment.Environment) {
	type eater struct {
		index int
		rate   float64
	}
	byCell := make(map[int][]eater)

	for i, alive := range s.Alive {
		if !alive || s.Satiation[i] > 0 {
			continue
		}
		id := s.SpeciesID[i]
		if !f.grazes(id) {
			continue
		}
		entry := f.fauna[id]
		if id == species.SmallFish && !f.smallFishMayGraze(s, i, entry) {
			continue
		}
		cell := env.Index(clampCoord(s.Position[i].X, env.W), clampCoord(s.Position[i].Y, env.H), clampCoord(s.Position[i].Z, env.D))
		byCell[cell] = append(byCell[cell], eater{index: i, rate: entry.EatingRate})
	}

	for cell, eaters := range byCell {
		supply := env.Plankton[cell]
		lowScale := 1.0
		if supply < f.lowPlanktonThreshold && f.lowPlanktonThreshold > 0 {
			lowScale = supply / f.lowPlanktonThreshold
		}

		demand := 0.0
		for _, e := range eaters {
			demand += e.rate * lowScale
		}
		if demand <= 0 {
			continue
		}
		share := 1.0
		if demand > supply {
			share = supply / demand
		}

		var consumedTotal float64
		for _, e := range eaters {
			consumed := e.rate * lowScale * share
			if consumed <= 0 {
				continue
			}
			consumedTotal += consumed
			entry := f.fauna[s.SpeciesID[e.index]]
			s.Energy[e.index] += consumed*entry.EnergyConversionFactor + baselineEnergyGain
			s.Satiation[e.index] = entry.PlanktonSatiationPeriod
		}
		env.Plankton[cell] -= consumedTotal
		if env.Plankton[cell] < 0 {
			env.Plankton[cell] = 0
		}
	}
}

func (f *Feeding) grazes(id species.ID) bool {
	return id == species.Zooplankton || id == species.SeaTurtle || id == species.SmallFish
}

// smallFishMayGraze implements the §4.5 refinement: juveniles always graze; adults
// only graze when local zooplankton density is below prey_scarcity_threshold. A
// threshold of zero or less turns the scarcity test off, and adults always graze.
func (f *Feeding) smallFishMayGraze(s *store.Store, i int, entry *config.FaunaEntry) bool {
	if entry.MaturityAge > 0 && s.Age[i] < entry.MaturityAge {
		return true
	}
	if entry.PreyScarcityThreshold <= 0 {
		return true
	}
	count := 0
	for j, alive := range s.Alive {
		if !alive || s.SpeciesID[j] != species.Zooplankton {
			continue
		}
		if distance(s.Position[i], s.Position[j]) <= entry.VisionRadius {
			count++
			if count >= entry.PreyScarcityThreshold {
				return false
			}
		}
	}
	return true
}

// Scavenge moves each crab one step (sink while not at the seabed, else toward the
// richest neighboring bottom cell) then eats available marine snow (§4.5).
func (f *Feeding) Scavenge(s *store.Store, env *environment.Environment) {
	entry := f.fauna[species.Crab]
	for i, alive := range s.Alive {
		if !alive || s.SpeciesID[i] != species.Crab || s.Satiation[i] > 0 {
			continue
		}
		x, y, z := clampCoord(s.Position[i].X, env.W), clampCoord(s.Position[i].Y, env.H), clampCoord(s.Position[i].Z, env.D)
		if z < env.D-1 {
			z++
		} else {
			x, y = bestNeighborCell(env, x, y, z)
		}
		s.Position[i] = store.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}

		cell := env.Index(x, y, z)
		consumed := math.Min(entry.EatingRate, env.MarineSnow[cell])
		if consumed <= 0 {
			continue
		}
		env.MarineSnow[cell] -= consumed
		s.Energy[i] += consumed * entry.EnergyConversionFactor
		s.Satiation[i] = entry.PlanktonSatiationPeriod
	}
}

func bestNeighborCell(env *environment.Environment, x, y, z int) (int, int) {
	bestX, bestY := x, y
	best := env.MarineSnow[env.Index(x, y, z)]
	for dy := -1; dy <= 1; dy++ {
		ny := (y + dy + env.H) % env.H
		for dx := -1; dx <= 1; dx++ {
			nx := (x + dx + env.W) % env.W
			v := env.MarineSnow[env.Index(nx, ny, z)]
			if v > best {
				best = v
				bestX, bestY = nx, ny
			}
		}
	}
	return bestX, bestY
}

// predationRadiusCeiling bounds the nearest-neighbor search; generous relative to
// any configured vision_radius so it never truncates a real acquisition.
const predationRadiusCeiling = 1000.0

// Predation runs the diet-table driven hunt for every (predator, prey-set) entry:
// acquisition, strike, exclusive-kill arbitration, and energy transfer (§4.5).
// Skipped entirely during the bootstrap period, during which targets are cleared.
func (f *Feeding) Predation(s *store.Store, env *environment.Environment, rng *rand.Rand, isBootstrap bool) {
	if isBootstrap {
		for i := range s.Target {
			s.Target[i] = -1
		}
		return
	}

	for _, predatorID := range species.All {
		preyIDs, ok := f.diet[predatorID]
		if !ok || len(preyIDs) == 0 {
			continue
		}
		f.huntOnePair(s, env, rng, predatorID, preyIDs)
	}
}

func (f *Feeding) huntOnePair(s *store.Store, env *environment.Environment, rng *rand.Rand, predatorID species.ID, preyIDs []species.ID) {
	predEntry := f.fauna[predatorID]

	var preyPoints []spatial.Point
	for j, alive := range s.Alive {
		if !alive || !containsSpecies(preyIDs, s.SpeciesID[j]) {
			continue
		}
		preyEntry := f.fauna[s.SpeciesID[j]]
		if preyEntry.MaturityAge > 0 && s.Age[j] < preyEntry.MaturityAge {
			continue
		}
		preyPoints = append(preyPoints, spatial.Point{Pos: s.Position[j], Index: j})
	}
	if len(preyPoints) == 0 {
		return
	}
	grid := spatial.Build(preyPoints, math.Max(predEntry.VisionRadius, 1))

	type strike struct {
		predator int
		prey     int
		chance   float64
	}
	var strikes []strike

	for i, alive := range s.Alive {
		if !alive || s.SpeciesID[i] != predatorID || s.Satiation[i] > 0 {
			continue
		}
		cell := env.Index(clampCoord(s.Position[i].X, env.W), clampCoord(s.Position[i].Y, env.H), clampCoord(s.Position[i].Z, env.D))

		vision := predEntry.VisionRadius * env.VisionModifier[cell]
		if env.RefugeMask[cell] {
			vision *= predEntry.RefugeVisionModifier
		}

		nearest := grid.NearestQuery([]store.Vec3{s.Position[i]}, predationRadiusCeiling)[0]
		if !nearest.Found {
			continue
		}

		if nearest.Distance >= vision {
			continue
		}
		s.Target[i] = nearest.Index

		if nearest.Distance >= predEntry.PredationRange {
			continue
		}

		chance := predEntry.HuntSuccessChance
		if predEntry.MaturityAge > 0 && s.Age[i] < predEntry.MaturityAge {
			chance *= predEntry.JuvenileHuntModifier
		}
		preyCell := env.Index(clampCoord(s.Position[nearest.Index].X, env.W), clampCoord(s.Position[nearest.Index].Y, env.H), clampCoord(s.Position[nearest.Index].Z, env.D))
		if env.RefugeMask[preyCell] {
			chance *= f.refugeHuntDebuff
		}

		if rng.Float64() < chance {
			strikes = append(strikes, strike{predator: i, prey: nearest.Index, chance: chance})
		}
	}

	// Exclusive-kill arbitration: lowest predator index wins ties on the same prey.
	sort.Slice(strikes, func(a, b int) bool { return strikes[a].predator < strikes[b].predator })
	wonPrey := make(map[int]bool, len(strikes))
	for _, st := range strikes {
		if wonPrey[st.prey] {
			continue
		}
		wonPrey[st.prey] = true
		f.resolveKill(s, predEntry, st.predator, st.prey)
	}
}

func (f *Feeding) resolveKill(s *store.Store, predEntry *config.FaunaEntry, predator, prey int) {
	preyEntry := f.fauna[s.SpeciesID[prey]]
	efficiency := dynamicEfficiency(predEntry, preyEntry.Size)
	s.Energy[predator] += preyEntry.Size * efficiency
	s.Satiation[predator] = predEntry.SatiationPeriod
	s.Kill(prey)
}

// dynamicEfficiency computes ε(s) = max_efficiency * exp(-(size-optimal)^2 / (2*tolerance^2)),
// a Gaussian centered on the predator's optimal prey size (§4.5 step 7).
func dynamicEfficiency(predEntry *config.FaunaEntry, preySize float64) float64 {
	tolerance := predEntry.PreySizeTolerance
	if tolerance <= 0 {
		tolerance = 1
	}
	delta := preySize - predEntry.OptimalPreySize
	return predEntry.MaxEnergyTransferEfficiency * math.Exp(-(delta*delta)/(2*tolerance*tolerance))
}

func containsSpecies(list []species.ID, id species.ID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func distance(a, b store.Vec3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
