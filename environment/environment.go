// Package environment implements the 3-D lattice of environmental fields: plankton
// density, sinking marine snow, the time-invariant biome and sunlight maps, and the
// single-instance bloom/disease event machine.
package environment

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosimocean/biome"
)

// EventKind identifies the single active transient event, if any.
type EventKind int

const (
	EventNone EventKind = iota
	EventBloom
	EventDisease
)

// Params bundles every construction- and update-time tunable the environment reads.
// Mirrors the "Simulation:" group of the configuration schema that concerns the
// lattice (grid dimensions live alongside it in config.SimConfig; callers project
// only the fields this package needs).
type Params struct {
	InitialFoodDensity       float64
	PlanktonDiffusionRate    float64
	PlanktonMaxGrowthRate    float64
	MarineSnowDecayRate      float64
	MarineSnowSinkingFactor  float64
	SnowToPlanktonConversion float64

	EventChance           float64
	EventDuration         int
	PlanktonBloomModifier float64
	DiseaseZoneModifier   float64

	Generation biome.GenerationConfig
	NumRefuges int
	RefugeSize int
}

// Environment owns every per-cell field of the W×H×D lattice.
type Environment struct {
	W, H, D int

	Plankton    []float64
	MarineSnow  []float64
	Sunlight    []float64
	BiomeMap    *biome.Map
	RefugeMask  []bool

	BaseNutrient      []float64
	CurrentNutrient   []float64
	MetabolicModifier []float64
	VisionModifier    []float64
	DiseaseRisk       []float64

	eventKind     EventKind
	ticksRemaining int

	params Params
}

// New builds the lattice: plankton initialized to InitialFoodDensity, marine snow to
// zero, an immutable biome map, modifier maps derived from the biome table, a random
// refuge mask, and the time-invariant sunlight gradient.
func New(w, h, d int, params Params, rng *rand.Rand) *Environment {
	n := w * h * d
	env := &Environment{
		W: w, H: h, D: d,
		Plankton:   make([]float64, n),
		MarineSnow: make([]float64, n),
		Sunlight:   make([]float64, n),
		RefugeMask: make([]bool, n),

		BaseNutrient:      make([]float64, n),
		CurrentNutrient:   make([]float64, n),
		MetabolicModifier: make([]float64, n),
		VisionModifier:    make([]float64, n),
		DiseaseRisk:       make([]float64, n),

		params: params,
	}

	for i := range env.Plankton {
		env.Plankton[i] = params.InitialFoodDensity
	}

	env.BiomeMap = biome.Build(w, h, d, params.Generation, rng)
	env.deriveModifierMaps()
	env.buildRefugeMask(rng)
	env.buildSunlightGradient()

	for i := range env.DiseaseRisk {
		env.DiseaseRisk[i] = 1.0
	}

	return env
}

func (e *Environment) idx(x, y, z int) int {
	return x + y*e.W + z*e.W*e.H
}

func (e *Environment) deriveModifierMaps() {
	for z := 0; z < e.D; z++ {
		for y := 0; y < e.H; y++ {
			for x := 0; x < e.W; x++ {
				i := e.idx(x, y, z)
				mods := biome.Table[e.BiomeMap.At(x, y, z)]
				e.BaseNutrient[i] = mods.NutrientFactor
				e.CurrentNutrient[i] = mods.NutrientFactor
				e.MetabolicModifier[i] = mods.MetabolicModifier
				e.VisionModifier[i] = mods.VisionModifier
			}
		}
	}
}

func (e *Environment) buildRefugeMask(rng *rand.Rand) {
	for i := 0; i < e.params.NumRefuges; i++ {
		cx := rng.Intn(e.W)
		cy := rng.Intn(e.H)
		size := e.params.RefugeSize
		xStart, xEnd := clampRange(cx-size, cx+size, e.W)
		yStart, yEnd := clampRange(cy-size, cy+size, e.H)
		for z := 0; z < e.D; z++ {
			for y := yStart; y < yEnd; y++ {
				for x := xStart; x < xEnd; x++ {
					e.RefugeMask[e.idx(x, y, z)] = true
				}
			}
		}
	}
}

func clampRange(start, end, limit int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > limit {
		end = limit
	}
	return start, end
}

func (e *Environment) buildSunlightGradient() {
	for z := 0; z < e.D; z++ {
		level := math.Exp(-float64(z) * 0.5)
		for y := 0; y < e.H; y++ {
			for x := 0; x < e.W; x++ {
				e.Sunlight[e.idx(x, y, z)] = level
			}
		}
	}
}

// Update runs, in order, the event machine, plankton dynamics, and marine snow
// dynamics (§4.1).
func (e *Environment) Update(rng *rand.Rand) {
	e.updateEvent(rng)
	e.updatePlankton()
	e.updateMarineSnow()
}

// EventState reports the currently active event, if any, and its remaining ticks.
func (e *Environment) EventState() (EventKind, int) {
	return e.eventKind, e.ticksRemaining
}

func (e *Environment) updateEvent(rng *rand.Rand) {
	if e.ticksRemaining > 0 {
		e.ticksRemaining--
		if e.ticksRemaining == 0 {
			copy(e.CurrentNutrient, e.BaseNutrient)
			for i := range e.DiseaseRisk {
				e.DiseaseRisk[i] = 1.0
			}
			e.eventKind = EventNone
			// Revert and any new roll are kept on separate ticks, so a reverted
			// event reads as fully reverted for at least one tick even when
			// event_chance is high enough to retrigger immediately afterward.
			return
		}
	}

	if e.eventKind != EventNone || rng.Float64() >= e.params.EventChance {
		return
	}

	e.ticksRemaining = e.params.EventDuration
	if rng.Intn(2) == 0 {
		e.eventKind = EventBloom
		for z := 0; z < e.D; z++ {
			for y := 0; y < e.H; y++ {
				for x := 0; x < e.W; x++ {
					if e.BiomeMap.At(x, y, z) == biome.OpenOcean {
						i := e.idx(x, y, z)
						e.CurrentNutrient[i] *= e.params.PlanktonBloomModifier
					}
				}
			}
		}
		return
	}

	e.eventKind = EventDisease
	for z := 0; z < e.D; z++ {
		for y := 0; y < e.H; y++ {
			for x := 0; x < e.W; x++ {
				if e.BiomeMap.At(x, y, z) == biome.CoralReef {
					i := e.idx(x, y, z)
					e.DiseaseRisk[i] *= e.params.DiseaseZoneModifier
				}
			}
		}
	}
}

// updatePlankton applies the 7-point periodic/solid-boundary Laplacian diffusion
// followed by logistic growth, in that exact order, then clamps to [0,1] (§4.1).
func (e *Environment) updatePlankton() {
	diffused := e.laplacian()
	rate := e.params.PlanktonDiffusionRate
	maxGrowth := e.params.PlanktonMaxGrowthRate

	for i, p := range e.Plankton {
		p += diffused[i] * rate
		growth := p * (1 - p) * e.Sunlight[i] * maxGrowth * e.CurrentNutrient[i]
		p += growth
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		e.Plankton[i] = p
	}
}

// laplacian computes the unscaled sum of the in-bounds neighbors minus their count
// times the center (6 neighbors, or 5 in the top and bottom z layers), wrapping x
// and y periodically and treating z as a solid top/bottom boundary (no wrap in z).
func (e *Environment) laplacian() []float64 {
	out := make([]float64, len(e.Plankton))
	for z := 0; z < e.D; z++ {
		zDown, zUp := z-1, z+1
		hasDown, hasUp := zDown >= 0, zUp < e.D
		for y := 0; y < e.H; y++ {
			yDown := (y - 1 + e.H) % e.H
			yUp := (y + 1) % e.H
			for x := 0; x < e.W; x++ {
				xDown := (x - 1 + e.W) % e.W
				xUp := (x + 1) % e.W

				center := e.Plankton[e.idx(x, y, z)]
				sum := e.Plankton[e.idx(xDown, y, z)] + e.Plankton[e.idx(xUp, y, z)] +
					e.Plankton[e.idx(x, yDown, z)] + e.Plankton[e.idx(x, yUp, z)]
				neighborCount := 4.0
				if hasDown {
					sum += e.Plankton[e.idx(x, y, zDown)]
					neighborCount++
				}
				if hasUp {
					sum += e.Plankton[e.idx(x, y, zUp)]
					neighborCount++
				}
				out[e.idx(x, y, z)] = sum - neighborCount*center
			}
		}
	}
	return out
}

// updateMarineSnow sinks marine snow one cell toward +z, converts a fraction to
// plankton, and decays the remainder (§4.1).
func (e *Environment) updateMarineSnow() {
	sunk := make([]float64, len(e.MarineSnow))
	for z := 1; z < e.D; z++ {
		for y := 0; y < e.H; y++ {
			for x := 0; x < e.W; x++ {
				sunk[e.idx(x, y, z)] = e.MarineSnow[e.idx(x, y, z-1)] * e.params.MarineSnowSinkingFactor
			}
		}
	}
	e.MarineSnow = sunk

	conv := e.params.SnowToPlanktonConversion
	decay := e.params.MarineSnowDecayRate
	for i, snow := range e.MarineSnow {
		e.Plankton[i] += snow * conv
		if e.Plankton[i] > 1 {
			e.Plankton[i] = 1
		}
		e.MarineSnow[i] = snow * decay
	}
}

// DepositMarineSnow adds amount to the cell at the given integer coordinates.
// Out-of-range coordinates are a precondition violation and are silently ignored
// rather than indexed, matching the "defensive clamping" error-handling policy (§7).
func (e *Environment) DepositMarineSnow(x, y, z int, amount float64) {
	if x < 0 || x >= e.W || y < 0 || y >= e.H || z < 0 || z >= e.D {
		return
	}
	e.MarineSnow[e.idx(x, y, z)] += amount
}

// TotalPlankton sums the plankton field, used by telemetry and tests.
func (e *Environment) TotalPlankton() float64 {
	var total float64
	for _, p := range e.Plankton {
		total += p
	}
	return total
}

// TotalMarineSnow sums the marine snow field.
func (e *Environment) TotalMarineSnow() float64 {
	var total float64
	for _, s := range e.MarineSnow {
		total += s
	}
	return total
}

// Index exposes the flattening used internally, for callers (store, systems) that
// need to look up a cell's derived fields from an agent's integer position.
func (e *Environment) Index(x, y, z int) int {
	return e.idx(x, y, z)
}
