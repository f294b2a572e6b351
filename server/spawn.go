package main

import (
	"math/rand/v2"
	"sync"
)

// SpawnAllocator picks a uniformly random free cell on a team's home row
type SpawnAllocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSpawnAllocator seeds the allocator; equal seeds give equal spawn order
func NewSpawnAllocator(seed uint64) *SpawnAllocator {
	return &SpawnAllocator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Allocate returns a free spawn cell and the facing for team, or
// ErrNoSpawnPoint when the whole home row is blocked or occupied
func (s *SpawnAllocator) Allocate(team Team, terrain *Terrain, tanks []*Tank) (Cell, Direction, error) {
	occ := terrain.Occupancy(tanks)
	row := team.HomeRow(terrain.Rows())

	free := make([]Cell, 0, terrain.Cols())
	for x := 0; x < terrain.Cols(); x++ {
		c := Cell{X: x, Y: row}
		if occ.At(c) == CellFree {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return Cell{}, 0, ErrNoSpawnPoint
	}

	s.mu.Lock()
	s.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	s.mu.Unlock()

	return free[0], team.Forward(), nil
}
