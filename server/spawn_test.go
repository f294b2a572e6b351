package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnFailsWhenHomeRowFull(t *testing.T) {
	layout := ClassicLayout(24, 16)
	castles := []*Castle{&layout.Castles[0], &layout.Castles[1]}
	terrain := NewTerrain(24, 16, castles, layout.Rocks)

	var tanks []*Tank
	for x := 0; x < 24; x++ {
		if terrain.Static(Cell{X: x, Y: 0}) == CellBlocked {
			continue
		}
		tanks = append(tanks, NewTank("r", TeamRed, Cell{X: x, Y: 0}, DirDown))
	}

	_, _, err := NewSpawnAllocator(1).Allocate(TeamRed, terrain, tanks)
	assert.ErrorIs(t, err, ErrNoSpawnPoint)
}

func TestSpawnIgnoresWrecks(t *testing.T) {
	terrain := NewTerrain(6, 6, nil, nil)
	var tanks []*Tank
	for x := 0; x < 6; x++ {
		tk := NewTank("r", TeamRed, Cell{X: x, Y: 0}, DirDown)
		tk.Life = LifeDestroyed
		tanks = append(tanks, tk)
	}
	cell, _, err := NewSpawnAllocator(1).Allocate(TeamRed, terrain, tanks)
	require.NoError(t, err)
	assert.Equal(t, 0, cell.Y)
}

func TestSpawnFacesEnemy(t *testing.T) {
	terrain := NewTerrain(24, 16, nil, nil)
	s := NewSpawnAllocator(3)

	cell, dir, err := s.Allocate(TeamRed, terrain, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cell.Y)
	assert.Equal(t, DirDown, dir)

	cell, dir, err = s.Allocate(TeamBlue, terrain, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, cell.Y)
	assert.Equal(t, DirUp, dir)
}

func TestSpawnPicksOnlyFreeCells(t *testing.T) {
	terrain := NewTerrain(6, 6, nil, []Rock{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
	tanks := []*Tank{NewTank("a", TeamRed, Cell{X: 3, Y: 0}, DirDown)}
	s := NewSpawnAllocator(9)

	for i := 0; i < 50; i++ {
		cell, _, err := s.Allocate(TeamRed, terrain, tanks)
		require.NoError(t, err)
		assert.Contains(t, []int{4, 5}, cell.X)
	}
}

func TestSpawnIsUniformOverFreeCells(t *testing.T) {
	terrain := NewTerrain(6, 6, nil, nil)
	s := NewSpawnAllocator(42)
	counts := make(map[int]int)
	const draws = 6000
	for i := 0; i < draws; i++ {
		cell, _, err := s.Allocate(TeamBlue, terrain, nil)
		require.NoError(t, err)
		counts[cell.X]++
	}
	require.Len(t, counts, 6)
	for x, n := range counts {
		assert.InDelta(t, draws/6, n, 200, "column %d", x)
	}
}

func TestSpawnSeedIsReproducible(t *testing.T) {
	terrain := NewTerrain(24, 16, nil, nil)
	a, b := NewSpawnAllocator(5), NewSpawnAllocator(5)
	for i := 0; i < 10; i++ {
		ca, _, _ := a.Allocate(TeamRed, terrain, nil)
		cb, _, _ := b.Allocate(TeamRed, terrain, nil)
		assert.Equal(t, ca, cb)
	}
}
