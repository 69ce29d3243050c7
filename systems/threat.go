// Package systems implements the threat, feeding, population, and movement phases
// that run in the fixed order described by the tick scheduler.
package systems

import (
	"math"

	"github.com/pthm-cable/ecosimocean/spatial"
	"github.com/pthm-cable/ecosimocean/species"
	"github.com/pthm-cable/ecosimocean/store"
)

// threatRadius is the fixed detection radius prey use to notice nearby predators (§4.4).
const threatRadius = 15.0

var predatorSpecies = []species.ID{species.SmallFish, species.Seal}
var threatenedPreySpecies = []species.ID{species.Zooplankton, species.SmallFish, species.Crab, species.SeaTurtle}

// Threat recomputes the store's Threatened and FleeVec fields.
type Threat struct{}

// NewThreat constructs the threat system. It holds no per-instance state; all
// inputs arrive through Update.
func NewThreat() *Threat { return &Threat{} }

// Update clears and recomputes Threatened/FleeVec for every prey agent, as
// specified by §4.4: each prey within threatRadius of at least one predator is
// marked threatened, with a flee vector pointing away from the (summed) threats.
func (t *Threat) Update(s *store.Store) {
	for i := range s.Threatened {
		s.Threatened[i] = false
		s.FleeVec[i] = store.Vec3{}
	}

	var predators []spatial.Point
	for i, alive := range s.Alive {
		if !alive || !isPredatorSpecies(s.SpeciesID[i]) {
			continue
		}
		predators = append(predators, spatial.Point{Pos: s.Position[i], Index: i})
	}
	if len(predators) == 0 {
		return
	}
	grid := spatial.Build(predators, threatRadius)

	for i, alive := range s.Alive {
		if !alive || !isThreatenedPreySpecies(s.SpeciesID[i]) {
			continue
		}
		near := grid.RadiusQuery(s.Position[i], threatRadius)

		var sum store.Vec3
		var threats int
		for _, p := range near {
			if p.Index == i {
				continue
			}
			sum.X += s.Position[i].X - p.Pos.X
			sum.Y += s.Position[i].Y - p.Pos.Y
			sum.Z += s.Position[i].Z - p.Pos.Z
			threats++
		}
		if threats == 0 {
			continue
		}
		s.FleeVec[i] = roundUnit(sum)
		s.Threatened[i] = true
	}
}

func roundUnit(v store.Vec3) store.Vec3 {
	length := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if length == 0 {
		return store.Vec3{}
	}
	return store.Vec3{
		X: math.Round(v.X / length),
		Y: math.Round(v.Y / length),
		Z: math.Round(v.Z / length),
	}
}

func isPredatorSpecies(id species.ID) bool {
	for _, p := range predatorSpecies {
		if p == id {
			return true
		}
	}
	return false
}

func isThreatenedPreySpecies(id species.ID) bool {
	for _, p := range threatenedPreySpecies {
		if p == id {
			return true
		}
	}
	return false
}
