package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosimocean/environment"
	"github.com/pthm-cable/ecosimocean/species"
	"github.com/pthm-cable/ecosimocean/store"
)

// searchResampleChance is the per-tick probability a hungry, targetless predator
// picks a fresh random search direction (§4.7).
const searchResampleChance = 0.1

// Movement computes and applies one integer position delta per agent, in the
// flee → chase → search → wander priority order of §4.7.
type Movement struct {
	fauna FaunaParams
}

// NewMovement constructs the movement system over resolved fauna config.
func NewMovement(fauna FaunaParams) *Movement {
	return &Movement{fauna: fauna}
}

// Update applies movement deltas to every live agent, then enforces the lattice's
// boundary conditions: x,y wrap (toroidal), z clamps.
func (m *Movement) Update(s *store.Store, env *environment.Environment, rng *rand.Rand) {
	for i, alive := range s.Alive {
		if !alive {
			continue
		}
		delta := m.delta(s, i, rng)
		pos := s.Position[i]
		pos.X = wrap(pos.X+delta.X, float64(env.W))
		pos.Y = wrap(pos.Y+delta.Y, float64(env.H))
		pos.Z = clampf(pos.Z+delta.Z, 0, float64(env.D-1))
		s.Position[i] = pos
	}
}

func (m *Movement) delta(s *store.Store, i int, rng *rand.Rand) store.Vec3 {
	if s.Threatened[i] {
		return s.FleeVec[i]
	}

	id := s.SpeciesID[i]
	entry := m.fauna[id]

	if species.IsPredator(id) && s.Target[i] >= 0 && s.Alive[s.Target[i]] {
		return store.Vec3{
			X: signOf(s.Position[s.Target[i]].X - s.Position[i].X),
			Y: signOf(s.Position[s.Target[i]].Y - s.Position[i].Y),
			Z: signOf(s.Position[s.Target[i]].Z - s.Position[i].Z),
		}
	}

	if species.IsPredator(id) && s.Energy[i] < entry.EffectiveHungerThreshold() && s.Target[i] < 0 {
		if rng.Float64() < searchResampleChance {
			s.SearchVec[i] = randomUnitVec(rng)
		}
		return s.SearchVec[i]
	}

	return randomUnitVec(rng)
}

func randomUnitVec(rng *rand.Rand) store.Vec3 {
	return store.Vec3{
		X: float64(rng.Intn(3) - 1),
		Y: float64(rng.Intn(3) - 1),
		Z: float64(rng.Intn(3) - 1),
	}
}

func signOf(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func wrap(v, limit float64) float64 {
	r := math.Mod(v, limit)
	if r < 0 {
		r += limit
	}
	return r
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
