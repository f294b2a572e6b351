package main

import "testing"

func TestNormalizeDirection(t *testing.T) {
	cases := map[int]Direction{
		0: DirUp, 1: DirRight, 3: DirLeft, 4: DirUp,
		-1: DirLeft, -4: DirUp, -5: DirLeft, 9: DirRight,
	}
	for in, want := range cases {
		if got := NormalizeDirection(in); got != want {
			t.Errorf("NormalizeDirection(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestCellStep(t *testing.T) {
	c := Cell{X: 3, Y: 3}
	if got := c.Step(DirUp); got != (Cell{X: 3, Y: 2}) {
		t.Errorf("up: got %v", got)
	}
	if got := c.Step(DirRight); got != (Cell{X: 4, Y: 3}) {
		t.Errorf("right: got %v", got)
	}
	if got := c.Step(DirDown); got != (Cell{X: 3, Y: 4}) {
		t.Errorf("down: got %v", got)
	}
	if got := c.Step(DirLeft); got != (Cell{X: 2, Y: 3}) {
		t.Errorf("left: got %v", got)
	}
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(4, 3)
	if g.Inside(Cell{X: 4, Y: 0}) || g.Inside(Cell{X: 0, Y: -1}) {
		t.Error("cells outside the grid reported inside")
	}
	if g.At(Cell{X: -1, Y: 0}) != CellBlocked {
		t.Error("out-of-bounds should read as blocked")
	}
	g.Set(Cell{X: 10, Y: 10}, CellTank) // ignored
	g.Set(Cell{X: 3, Y: 2}, CellTank)
	if g.At(Cell{X: 3, Y: 2}) != CellTank {
		t.Error("set did not stick")
	}

	cp := g.Clone()
	cp.Set(Cell{X: 3, Y: 2}, CellFree)
	if g.At(Cell{X: 3, Y: 2}) != CellTank {
		t.Error("clone shares storage")
	}
}

func TestTerrainOccupancy(t *testing.T) {
	castle := &Castle{X: 1, Y: 0, Team: TeamRed}
	terrain := NewTerrain(6, 6, []*Castle{castle}, []Rock{{X: 4, Y: 4}})

	for _, c := range castle.Footprint() {
		if terrain.Static(c) != CellBlocked {
			t.Errorf("castle cell %v not blocked", c)
		}
	}
	if terrain.Static(Cell{X: 4, Y: 4}) != CellBlocked {
		t.Error("rock not blocked")
	}

	live := NewTank("a", TeamRed, Cell{X: 0, Y: 3}, DirUp)
	wreck := NewTank("b", TeamBlue, Cell{X: 5, Y: 5}, DirUp)
	wreck.Life = LifeDestroyed
	occ := terrain.Occupancy([]*Tank{live, wreck})

	if occ.At(Cell{X: 0, Y: 3}) != CellTank {
		t.Error("live tank missing from occupancy")
	}
	if occ.At(Cell{X: 5, Y: 5}) != CellFree {
		t.Error("wreck should not occupy its cell")
	}
	terrain.Reset(occ, Cell{X: 0, Y: 3})
	if occ.At(Cell{X: 0, Y: 3}) != CellFree {
		t.Error("reset should restore terrain value")
	}
	if terrain.Static(Cell{X: 0, Y: 3}) != CellFree {
		t.Error("occupancy leaked into static terrain")
	}
}
