// Package biome defines the fixed biome table and the 3-D biome map construction
// used by the environment lattice.
package biome

import "math/rand"

// Kind identifies one of the four biomes a lattice cell can belong to.
type Kind int

const (
	OpenOcean Kind = iota
	DeepSea
	PolarSea
	CoralReef
)

// Modifiers holds the per-biome factors applied uniformly to every cell of that biome.
// VisionModifier is derived here rather than left for callers to special-case, resolving
// the source's inconsistent handling of biome-dependent vision.
type Modifiers struct {
	NutrientFactor    float64
	VisionModifier    float64
	MetabolicModifier float64
}

// Table maps each biome Kind to its Modifiers.
var Table = map[Kind]Modifiers{
	OpenOcean: {NutrientFactor: 1.0, VisionModifier: 1.0, MetabolicModifier: 1.0},
	DeepSea:   {NutrientFactor: 0.3, VisionModifier: 0.5, MetabolicModifier: 0.8},
	PolarSea:  {NutrientFactor: 0.7, VisionModifier: 1.2, MetabolicModifier: 0.7},
	CoralReef: {NutrientFactor: 1.5, VisionModifier: 0.8, MetabolicModifier: 1.2},
}

// GenerationConfig controls the random placement of biome regions.
type GenerationConfig struct {
	DeepSeaDepthFraction  float64
	PolarZoneWidthFraction float64
	NumCoralReefs         int
	ReefMaxDepthFraction  float64
}

// Map is a flattened W*H*D grid of biome Kind, indexed as x + y*W + z*W*H.
type Map struct {
	W, H, D int
	Cells   []Kind
}

// At returns the biome at (x,y,z).
func (m *Map) At(x, y, z int) Kind {
	return m.Cells[x+y*m.W+z*m.W*m.H]
}

func (m *Map) set(x, y, z int, k Kind) {
	m.Cells[x+y*m.W+z*m.W*m.H] = k
}

// Build constructs the biome map deterministically from rng, following the order
// mandated for reproducibility: OpenOcean fill, DeepSea band, PolarSea band, then
// NumCoralReefs random reef blocks.
func Build(w, h, d int, cfg GenerationConfig, rng *rand.Rand) *Map {
	m := &Map{W: w, H: h, D: d, Cells: make([]Kind, w*h*d)}

	deepSeaZ := int(float64(d) * cfg.DeepSeaDepthFraction)
	polarX := int(float64(w) * cfg.PolarZoneWidthFraction)
	reefDepth := int(float64(d) * cfg.ReefMaxDepthFraction)
	if reefDepth < 1 {
		reefDepth = 1
	}

	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				k := OpenOcean
				if z >= deepSeaZ {
					k = DeepSea
				}
				if x < polarX {
					k = PolarSea
				}
				m.set(x, y, z, k)
			}
		}
	}

	for i := 0; i < cfg.NumCoralReefs; i++ {
		placeReef(m, polarX, reefDepth, rng)
	}

	return m
}

func placeReef(m *Map, polarX, reefDepth int, rng *rand.Rand) {
	lowX := polarX + 10
	highX := m.W - 10
	if highX <= lowX {
		return
	}
	highY := m.H - 10
	if highY <= 0 {
		return
	}

	cx := lowX + rng.Intn(highX-lowX)
	cy := rng.Intn(highY)

	for z := 0; z < reefDepth && z < m.D; z++ {
		for y := cy - 5; y < cy+5; y++ {
			if y < 0 || y >= m.H {
				continue
			}
			for x := cx - 5; x < cx+5; x++ {
				if x < 0 || x >= m.W {
					continue
				}
				m.set(x, y, z, CoralReef)
			}
		}
	}
}
