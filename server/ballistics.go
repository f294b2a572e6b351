package main

// flightOutcome is how a bullet's tick ended
type flightOutcome int

const (
	flightAirborne flightOutcome = iota
	flightOutOfBounds
	flightImpact
)

// flight steps one bullet through its per-tick budget. It stops at the first
// obstruction, so the result depends only on the occupancy grid.
type flight struct {
	bullet    Bullet
	stepsLeft int
}

// advance runs the flight to completion and returns the outcome together with
// the impact cell when there was one
func (f *flight) advance(occ *Grid) (flightOutcome, Cell) {
	for f.stepsLeft > 0 {
		f.stepsLeft--
		next := f.bullet.Cell().Step(f.bullet.Direction)
		if !occ.Inside(next) {
			return flightOutOfBounds, next
		}
		if occ.At(next) != CellFree {
			f.bullet = f.bullet.at(next)
			return flightImpact, next
		}
		f.bullet = f.bullet.at(next)
	}
	return flightAirborne, f.bullet.Cell()
}

// ballisticsResult is what BallisticsResolver produced in one tick
type ballisticsResult struct {
	// Surviving bullets carry over to the next tick
	Surviving []Bullet
	// Resolved holds every bullet at its final cell, consumed ones included
	Resolved   []Bullet
	Explosions []Cell
}

// BallisticsResolver moves bullets and applies impacts
type BallisticsResolver struct {
	terrain *Terrain
	castles []*Castle
	tanks   []*Tank
	scores  *ScoreKeeper
}

// Resolve advances every bullet against occ. Tanks destroyed here are cleared
// from occ so later bullets and movement can pass through their cell.
func (r *BallisticsResolver) Resolve(bullets []Bullet, occ *Grid) ballisticsResult {
	res := ballisticsResult{
		Surviving: make([]Bullet, 0, len(bullets)),
		Resolved:  make([]Bullet, 0, len(bullets)),
	}
	for _, b := range bullets {
		f := flight{bullet: b, stepsLeft: BulletStepsPerTick}
		outcome, cell := f.advance(occ)
		res.Resolved = append(res.Resolved, f.bullet)

		switch outcome {
		case flightAirborne:
			res.Surviving = append(res.Surviving, f.bullet)
		case flightImpact:
			res.Explosions = append(res.Explosions, cell)
			r.impact(cell, f.bullet, occ)
		}
	}
	return res
}

// impact applies a bullet hit at cell. Castles are checked before tanks;
// friendly targets absorb the bullet with no effect.
func (r *BallisticsResolver) impact(cell Cell, b Bullet, occ *Grid) {
	if c := castleAt(r.castles, cell); c != nil {
		if c.Team != b.Team {
			c.Hits++
			r.scores.CastleHit(b, c, cell)
		}
		return
	}

	victim := r.liveTankAt(cell)
	if victim == nil || victim.Team == b.Team {
		return
	}
	victim.destroy()
	r.scores.TankDestroyed(b, victim)
	r.terrain.Reset(occ, cell)
}

func (r *BallisticsResolver) liveTankAt(cell Cell) *Tank {
	for _, t := range r.tanks {
		if !t.Destroyed() && t.X == cell.X && t.Y == cell.Y {
			return t
		}
	}
	return nil
}
