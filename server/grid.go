package main

// Occupancy values
const (
	CellFree    uint8 = 0
	CellBlocked uint8 = 1 // rock or castle footprint
	CellTank    uint8 = 2
)

// Direction is a grid heading: 0 up, 1 right, 2 down, 3 left
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// NormalizeDirection wraps v into [0, 4), negative values included
func NormalizeDirection(v int) Direction {
	n := v % 4
	if n < 0 {
		n += 4
	}
	return Direction(n)
}

// Rotate turns d by delta quarter turns
func (d Direction) Rotate(delta int) Direction {
	return NormalizeDirection(int(d) + delta)
}

// Delta returns the unit step for d. Row 0 is the top edge.
func (d Direction) Delta() (dx, dy int) {
	switch NormalizeDirection(int(d)) {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	default:
		return -1, 0
	}
}

// Cell is an integer grid coordinate
type Cell struct {
	X int `json:"X" msgpack:"X"`
	Y int `json:"Y" msgpack:"Y"`
}

// Step returns the neighbouring cell in direction d
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Grid is a dense cols x rows cell map
type Grid struct {
	cols, rows int
	cells      []uint8
}

// NewGrid creates an all-free grid
func NewGrid(cols, rows int) *Grid {
	return &Grid{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// Inside reports whether c lies within the grid bounds
func (g *Grid) Inside(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.cols && c.Y < g.rows
}

// At returns the value at c. Out-of-bounds cells read as blocked.
func (g *Grid) At(c Cell) uint8 {
	if !g.Inside(c) {
		return CellBlocked
	}
	return g.cells[c.Y*g.cols+c.X]
}

// Set writes v at c; out-of-bounds writes are ignored
func (g *Grid) Set(c Cell, v uint8) {
	if !g.Inside(c) {
		return
	}
	g.cells[c.Y*g.cols+c.X] = v
}

// Clone returns an independent copy
func (g *Grid) Clone() *Grid {
	cp := &Grid{cols: g.cols, rows: g.rows, cells: make([]uint8, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}

// Terrain is the static obstacle layer. It never changes after construction.
type Terrain struct {
	static *Grid
}

// NewTerrain marks rocks and every castle footprint cell as blocked
func NewTerrain(cols, rows int, castles []*Castle, rocks []Rock) *Terrain {
	g := NewGrid(cols, rows)
	for _, r := range rocks {
		g.Set(r.Cell(), CellBlocked)
	}
	for _, c := range castles {
		for _, cell := range c.Footprint() {
			g.Set(cell, CellBlocked)
		}
	}
	return &Terrain{static: g}
}

func (t *Terrain) Cols() int { return t.static.cols }
func (t *Terrain) Rows() int { return t.static.rows }

// Inside reports whether c is on the map
func (t *Terrain) Inside(c Cell) bool { return t.static.Inside(c) }

// Static returns the terrain value at c
func (t *Terrain) Static(c Cell) uint8 { return t.static.At(c) }

// Occupancy derives this tick's grid: terrain plus every live tank
func (t *Terrain) Occupancy(tanks []*Tank) *Grid {
	occ := t.static.Clone()
	for _, tank := range tanks {
		if tank.Destroyed() {
			continue
		}
		occ.Set(tank.Cell(), CellTank)
	}
	return occ
}

// Reset reverts c in occ to its static terrain value
func (t *Terrain) Reset(occ *Grid, c Cell) {
	occ.Set(c, t.static.At(c))
}
