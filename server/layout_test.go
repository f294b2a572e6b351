package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassicLayout(t *testing.T) {
	l := ClassicLayout(24, 16)
	assert.Len(t, l.Rocks, 48)
	for _, r := range []Rock{{0, 7}, {5, 8}, {18, 7}, {23, 8}, {6, 4}, {17, 4}, {6, 11}, {17, 11}} {
		assert.Contains(t, l.Rocks, r)
	}
	assert.NotContains(t, l.Rocks, Rock{X: 6, Y: 7})
	assert.Equal(t, []Castle{
		{X: 11, Y: 0, Team: TeamRed},
		{X: 11, Y: 14, Team: TeamBlue},
	}, l.Castles)
}

func TestLayoutsKeepHomeRowsAndCastlesClear(t *testing.T) {
	for name, l := range map[string]Layout{
		"classic": ClassicLayout(24, 16),
		"perlin":  PerlinLayout(24, 16, 1234, 0.3),
	} {
		castles := []*Castle{&l.Castles[0], &l.Castles[1]}
		for _, r := range l.Rocks {
			assert.NotEqual(t, 0, r.Y, "%s: rock on red home row", name)
			assert.NotEqual(t, 15, r.Y, "%s: rock on blue home row", name)
			assert.Nil(t, castleAt(castles, r.Cell()), "%s: rock inside castle", name)
		}
	}
}

func TestPerlinLayoutIsDeterministic(t *testing.T) {
	a := PerlinLayout(24, 16, 99, 0.25)
	b := PerlinLayout(24, 16, 99, 0.25)
	assert.Equal(t, a, b)
	for _, r := range a.Rocks {
		assert.True(t, r.Y >= 2 && r.Y <= 13, "rock %v in edge band", r)
	}
}

func TestBuildLayout(t *testing.T) {
	l, err := BuildLayout(GridConfig{Columns: 24, Rows: 16}, TerrainConfig{})
	require.NoError(t, err)
	assert.Len(t, l.Rocks, 48)

	_, err = BuildLayout(GridConfig{Columns: 24, Rows: 16}, TerrainConfig{Mode: "maze"})
	assert.Error(t, err)
}
