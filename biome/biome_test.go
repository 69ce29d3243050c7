package biome

import (
	"math/rand"
	"testing"
)

func testConfig() GenerationConfig {
	return GenerationConfig{
		DeepSeaDepthFraction:   0.66,
		PolarZoneWidthFraction: 0.25,
		NumCoralReefs:          3,
		ReefMaxDepthFraction:   0.2,
	}
}

func TestBuild_FillsEveryCell(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := Build(30, 30, 10, testConfig(), rng)

	if len(m.Cells) != 30*30*10 {
		t.Fatalf("len(Cells) = %d, want %d", len(m.Cells), 30*30*10)
	}
	for z := 0; z < m.D; z++ {
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				k := m.At(x, y, z)
				if _, ok := Table[k]; !ok {
					t.Fatalf("cell (%d,%d,%d) has unknown biome kind %v", x, y, z, k)
				}
			}
		}
	}
}

func TestBuild_PolarBandTakesPriorityOverDeepSea(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := testConfig()
	cfg.NumCoralReefs = 0
	m := Build(30, 30, 10, cfg, rng)

	// x=0 is within the polar band at every depth, including the deep-sea z band.
	if k := m.At(0, 0, 9); k != PolarSea {
		t.Errorf("At(0,0,9) = %v, want PolarSea (polar band must override deep-sea banding)", k)
	}
}

func TestBuild_DeterministicForSameSeed(t *testing.T) {
	cfg := testConfig()
	m1 := Build(20, 20, 8, cfg, rand.New(rand.NewSource(7)))
	m2 := Build(20, 20, 8, cfg, rand.New(rand.NewSource(7)))

	for i := range m1.Cells {
		if m1.Cells[i] != m2.Cells[i] {
			t.Fatalf("cell %d differs between identically-seeded builds: %v vs %v", i, m1.Cells[i], m2.Cells[i])
		}
	}
}

func TestBuild_ReefsPlacedWhenRoomAvailable(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := testConfig()
	m := Build(60, 60, 10, cfg, rng)

	found := false
	for _, k := range m.Cells {
		if k == CoralReef {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected at least one CoralReef cell in a grid large enough to fit reefs")
	}
}
