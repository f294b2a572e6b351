package main

// MovePlan is one tank's intended move for the tick
type MovePlan struct {
	Tank   *Tank
	From   Cell
	Target Cell
}

// WillMove reports a genuine position change
func (p MovePlan) WillMove() bool { return p.From != p.Target }

// MovementResolver turns chassis intents into moves
type MovementResolver struct {
	terrain *Terrain
	scores  *ScoreKeeper
}

// Plan applies rotations and proposes a target for every tank. A forward
// intent targets the next cell only if it is on the map and free in occ.
func (m *MovementResolver) Plan(tanks []*Tank, occ *Grid) []MovePlan {
	plans := make([]MovePlan, 0, len(tanks))
	for _, t := range tanks {
		t.applyRotations()

		from := t.Cell()
		target := from
		if t.ChassisAction == ActionForward {
			next := from.Step(t.Chassis)
			if occ.Inside(next) && occ.At(next) == CellFree {
				target = next
			}
		}
		plans = append(plans, MovePlan{Tank: t, From: from, Target: target})
	}
	return plans
}

// Apply moves uncontested tanks and destroys every tank in a contested group.
// Groups come from the plans alone, so the outcome does not depend on the
// order tanks were planned in. It returns one explosion per contested cell.
func (m *MovementResolver) Apply(plans []MovePlan, occ *Grid) []Cell {
	var explosions []Cell
	for _, g := range groupByTarget(plans) {
		if len(g.plans) == 1 {
			p := g.plans[0]
			m.terrain.Reset(occ, p.From)
			p.Tank.X, p.Tank.Y = p.Target.X, p.Target.Y
			occ.Set(p.Target, CellTank)
			continue
		}

		wrecked := make([]*Tank, 0, len(g.plans))
		for _, p := range g.plans {
			p.Tank.destroy()
			m.terrain.Reset(occ, p.From)
			wrecked = append(wrecked, p.Tank)
		}
		m.terrain.Reset(occ, g.target)
		explosions = append(explosions, g.target)
		m.scores.Collision(wrecked, g.target)
	}
	return explosions
}
