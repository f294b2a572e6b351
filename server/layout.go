package main

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

const (
	TerrainClassic = "classic"
	TerrainPerlin  = "perlin"

	perlinAlpha  = 2.0
	perlinBeta   = 2.0
	perlinOctave = 3
	perlinScale  = 0.23
)

// Layout is the static content of a map
type Layout struct {
	Columns int
	Rows    int
	Castles []Castle
	Rocks   []Rock
}

// BuildLayout returns the layout for the configured terrain mode
func BuildLayout(cfg GridConfig, tc TerrainConfig) (Layout, error) {
	switch tc.Mode {
	case "", TerrainClassic:
		return ClassicLayout(cfg.Columns, cfg.Rows), nil
	case TerrainPerlin:
		return PerlinLayout(cfg.Columns, cfg.Rows, tc.Seed, tc.Density), nil
	default:
		return Layout{}, fmt.Errorf("unknown terrain mode %q", tc.Mode)
	}
}

// defaultCastles centres one castle on each home edge
func defaultCastles(cols, rows int) []Castle {
	return []Castle{
		{X: cols/2 - 1, Y: 0, Team: TeamRed},
		{X: cols/2 - 1, Y: rows - CastleSize, Team: TeamBlue},
	}
}

// ClassicLayout is the tournament map: two flank walls across the middle and
// two inner walls shielding each castle. On 24x16 it yields 48 rocks.
func ClassicLayout(cols, rows int) Layout {
	var rocks []Rock
	inner, outer := cols/4, cols*3/4
	near, far := rows/4, rows-rows/4-1
	midTop, midBottom := rows/2-1, rows/2

	for _, y := range []int{midTop, midBottom} {
		for x := 0; x < inner; x++ {
			rocks = append(rocks, Rock{X: x, Y: y})
		}
		for x := outer; x < cols; x++ {
			rocks = append(rocks, Rock{X: x, Y: y})
		}
	}
	for _, y := range []int{near, far} {
		for x := inner; x < outer; x++ {
			rocks = append(rocks, Rock{X: x, Y: y})
		}
	}

	return Layout{Columns: cols, Rows: rows, Castles: defaultCastles(cols, rows), Rocks: rocks}
}

// PerlinLayout scatters rocks where 2D noise exceeds a density cutoff. The two
// rows next to each edge stay clear so home rows and castles remain reachable.
func PerlinLayout(cols, rows int, seed int64, density float64) Layout {
	if density <= 0 {
		density = 0.25
	}
	cutoff := 0.5 - density
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed)

	var rocks []Rock
	for y := 2; y < rows-2; y++ {
		for x := 0; x < cols; x++ {
			if p.Noise2D(float64(x)*perlinScale, float64(y)*perlinScale) > cutoff {
				rocks = append(rocks, Rock{X: x, Y: y})
			}
		}
	}
	return Layout{Columns: cols, Rows: rows, Castles: defaultCastles(cols, rows), Rocks: rocks}
}
