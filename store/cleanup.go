package store

import "github.com/pthm-cable/ecosimocean/species"

// SizeLookup resolves a species' body size, used for marine-snow deposition amount.
type SizeLookup func(id species.ID) float64

// Deposit records marine snow into the environment at an integer cell.
type Deposit func(x, y, z int, amount float64)

// Cleanup runs the deposition-on-death pass every call, and repacks live entries to
// a contiguous prefix every interval-th call (§4.2). tick is the scheduler's current
// tick counter; interval is cleanup_interval from configuration.
func (s *Store) Cleanup(tick, interval int, sizeOf SizeLookup, deposit Deposit) {
	s.depositDeadOnce(sizeOf, deposit)

	if interval <= 0 || tick%interval != 0 {
		return
	}
	s.compact()
}

// depositDeadOnce deposits marine snow for every newly-dead slot exactly once,
// identified by Energy != DeadEnergySentinel, then marks it deposited.
func (s *Store) depositDeadOnce(sizeOf SizeLookup, deposit Deposit) {
	for i, alive := range s.Alive {
		if alive || s.Energy[i] == DeadEnergySentinel {
			continue
		}
		pos := s.Position[i]
		deposit(int(pos.X), int(pos.Y), int(pos.Z), sizeOf(s.SpeciesID[i]))
		s.Energy[i] = DeadEnergySentinel
	}
}

// compact repacks live entries into indices [0, N), remapping Target references via
// a dense old→new index map; a target that pointed at a now-dead (or now-moved-away)
// slot becomes -1 only when the referenced slot is dead — moved-but-alive targets
// follow the remap.
func (s *Store) compact() {
	remap := make([]int, s.Capacity)
	for i := range remap {
		remap[i] = -1
	}

	next := 0
	for i := 0; i < s.Capacity; i++ {
		if !s.Alive[i] {
			continue
		}
		remap[i] = next
		if next != i {
			s.Position[next] = s.Position[i]
			s.Energy[next] = s.Energy[i]
			s.SpeciesID[next] = s.SpeciesID[i]
			s.Alive[next] = true
			s.Age[next] = s.Age[i]
			s.Cooldown[next] = s.Cooldown[i]
			s.Satiation[next] = s.Satiation[i]
			s.Target[next] = s.Target[i]
			s.SearchVec[next] = s.SearchVec[i]
			s.Threatened[next] = s.Threatened[i]
			s.FleeVec[next] = s.FleeVec[i]
		}
		next++
	}

	for i := next; i < s.Capacity; i++ {
		s.Alive[i] = false
		s.Energy[i] = DeadEnergySentinel
		s.Target[i] = -1
	}

	for i := 0; i < next; i++ {
		if s.Target[i] < 0 {
			continue
		}
		s.Target[i] = remap[s.Target[i]]
	}

	s.freeList = s.freeList[:0]
	for i := next; i < s.Capacity; i++ {
		s.freeList = append(s.freeList, i)
	}
}
