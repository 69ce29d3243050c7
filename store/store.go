// Package store implements the struct-of-arrays agent store: parallel slices over a
// capacity C, a live count N ≤ C, slot reuse on death, amortized resize, and periodic
// compaction with target-index remapping.
package store

import (
	"math/rand"

	"github.com/pthm-cable/ecosimocean/species"
)

// DeadEnergySentinel marks a slot whose death has already been deposited as marine
// snow, so deposition happens exactly once per death (§3 "Deposition-on-death").
const DeadEnergySentinel = -999

// Vec3 is a plain 3-component vector used for both continuous positions and the
// integer search-direction/flee-direction fields.
type Vec3 struct {
	X, Y, Z float64
}

// Store holds every agent field as a parallel slice of length Capacity.
type Store struct {
	Capacity int
	maxCapacity int

	Position    []Vec3
	Energy      []float64
	SpeciesID   []species.ID
	Alive       []bool
	Age         []int
	Cooldown    []int
	Satiation   []int
	Target      []int
	SearchVec   []Vec3
	Threatened  []bool
	FleeVec     []Vec3

	// freeList holds indices with Alive == false, ready for reuse by reproduction.
	// It is rebuilt when Cleanup compacts, refilled by Spawn from dead, already
	// deposited slots when it runs empty, and drained by Spawn/reproduction.
	freeList []int
}

// New allocates a store with the given initial capacity, capped eventually at maxCapacity.
func New(initialCapacity, maxCapacity int) *Store {
	s := &Store{Capacity: initialCapacity, maxCapacity: maxCapacity}
	s.grow(initialCapacity)
	for i := 0; i < initialCapacity; i++ {
		s.freeList = append(s.freeList, i)
	}
	return s
}

func (s *Store) grow(capacity int) {
	s.Position = growVec3(s.Position, capacity)
	s.Energy = growFloat(s.Energy, capacity, DeadEnergySentinel)
	s.SpeciesID = growSpecies(s.SpeciesID, capacity)
	s.Alive = growBool(s.Alive, capacity)
	s.Age = growInt(s.Age, capacity)
	s.Cooldown = growInt(s.Cooldown, capacity)
	s.Satiation = growInt(s.Satiation, capacity)
	s.Target = growIntFill(s.Target, capacity, -1)
	s.SearchVec = growVec3(s.SearchVec, capacity)
	s.Threatened = growBool(s.Threatened, capacity)
	s.FleeVec = growVec3(s.FleeVec, capacity)
	s.Capacity = capacity
}

func growVec3(a []Vec3, n int) []Vec3 {
	out := make([]Vec3, n)
	copy(out, a)
	return out
}

func growFloat(a []float64, n int, fill float64) []float64 {
	out := make([]float64, n)
	copy(out, a)
	for i := len(a); i < n; i++ {
		out[i] = fill
	}
	return out
}

func growSpecies(a []species.ID, n int) []species.ID {
	out := make([]species.ID, n)
	copy(out, a)
	return out
}

func growBool(a []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, a)
	return out
}

func growInt(a []int, n int) []int {
	out := make([]int, n)
	copy(out, a)
	return out
}

func growIntFill(a []int, n int, fill int) []int {
	out := make([]int, n)
	copy(out, a)
	for i := len(a); i < n; i++ {
		out[i] = fill
	}
	return out
}

// LiveCount returns the number of currently alive agents by scanning Alive.
// It scans every slot, so its cost grows with Capacity.
func (s *Store) LiveCount() int {
	n := 0
	for _, alive := range s.Alive {
		if alive {
			n++
		}
	}
	return n
}

// CountSpecies returns the number of live agents of the given species.
func (s *Store) CountSpecies(id species.ID) int {
	n := 0
	for i, alive := range s.Alive {
		if alive && s.SpeciesID[i] == id {
			n++
		}
	}
	return n
}

// Spawn places one new agent into a free slot and returns its index, or -1 if the
// store is at maxCapacity with no free slots and cannot grow further (the hard
// ceiling from §4.2: "silently truncate the offspring list").
func (s *Store) Spawn(id species.ID, pos Vec3, energy float64, rng *rand.Rand) int {
	if len(s.freeList) == 0 {
		// Reuse dead slots whose marine snow has already been deposited (Energy
		// holds DeadEnergySentinel), in ascending order, before growing.
		for i, alive := range s.Alive {
			if !alive && s.Energy[i] == DeadEnergySentinel {
				s.freeList = append(s.freeList, i)
			}
		}
	}
	if len(s.freeList) == 0 {
		if !s.resize() {
			return -1
		}
	}
	if len(s.freeList) == 0 {
		return -1
	}

	// Slots are handed out in ascending order (§5, "offspring are assigned to free
	// slots in ascending slot order").
	i := s.freeList[0]
	s.freeList = s.freeList[1:]

	s.Position[i] = pos
	s.Energy[i] = energy
	s.SpeciesID[i] = id
	s.Alive[i] = true
	s.Age[i] = 0
	s.Cooldown[i] = 0
	s.Satiation[i] = 0
	s.Target[i] = -1
	s.SearchVec[i] = Vec3{
		X: float64(rng.Intn(3) - 1),
		Y: float64(rng.Intn(3) - 1),
		Z: float64(rng.Intn(3) - 1),
	}
	s.Threatened[i] = false
	s.FleeVec[i] = Vec3{}
	return i
}

// resize grows the store by 1.5x (at least one slot), capped at maxCapacity.
// Returns false if already at maxCapacity with nothing gained.
func (s *Store) resize() bool {
	target := int(float64(s.Capacity) * 1.5)
	if target <= s.Capacity {
		target = s.Capacity + 1
	}
	if target > s.maxCapacity {
		target = s.maxCapacity
	}
	if target <= s.Capacity {
		return false
	}

	old := s.Capacity
	s.grow(target)
	for i := old; i < target; i++ {
		s.freeList = append(s.freeList, i)
	}
	return true
}

// Kill clears the alive flag for index i. Marine snow deposition and the
// DeadEnergySentinel assignment happen later, in Cleanup.
func (s *Store) Kill(i int) {
	s.Alive[i] = false
}
