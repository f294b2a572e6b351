package main

// CastleSize is the edge length of the square castle footprint
const CastleSize = 2

// Castle is a team's fortress. Hits only ever increase.
type Castle struct {
	X    int  `json:"X" msgpack:"X"`
	Y    int  `json:"Y" msgpack:"Y"`
	Team Team `json:"Team" msgpack:"Team"`
	Hits int  `json:"Hits" msgpack:"Hits"`
}

// Contains reports whether cell lies inside the castle footprint
func (c *Castle) Contains(cell Cell) bool {
	return cell.X >= c.X && cell.X < c.X+CastleSize &&
		cell.Y >= c.Y && cell.Y < c.Y+CastleSize
}

// Footprint lists the cells covered by the castle
func (c *Castle) Footprint() []Cell {
	cells := make([]Cell, 0, CastleSize*CastleSize)
	for dy := 0; dy < CastleSize; dy++ {
		for dx := 0; dx < CastleSize; dx++ {
			cells = append(cells, Cell{X: c.X + dx, Y: c.Y + dy})
		}
	}
	return cells
}

// Rock is a single blocked cell
type Rock struct {
	X int `json:"X" msgpack:"X"`
	Y int `json:"Y" msgpack:"Y"`
}

func (r Rock) Cell() Cell { return Cell{X: r.X, Y: r.Y} }

// castleAt returns the first castle whose footprint contains cell
func castleAt(castles []*Castle, cell Cell) *Castle {
	for _, c := range castles {
		if c.Contains(cell) {
			return c
		}
	}
	return nil
}
