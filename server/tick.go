package main

// advanceLocked is the tick engine. The step order is fixed: bullets resolve
// against the tick-start occupancy before any tank moves, and tanks destroyed
// by bullets free their cell for movement in the same tick.
func (w *World) advanceLocked() Snapshot {
	w.tick++
	tanks := w.sortedTanks()
	scores := &ScoreKeeper{tick: w.tick, lookup: w.lookupTank, sink: w.sink}

	// 1. occupancy from terrain and live tanks
	occ := w.terrain.Occupancy(tanks)

	// 2. bullets
	ballistics := BallisticsResolver{terrain: w.terrain, castles: w.castles, tanks: tanks, scores: scores}
	flown := ballistics.Resolve(w.bullets, occ)
	explosions := flown.Explosions

	// 3. rotation and movement
	live := make([]*Tank, 0, len(tanks))
	for _, t := range tanks {
		if !t.Destroyed() {
			live = append(live, t)
		}
	}
	movement := MovementResolver{terrain: w.terrain, scores: scores}
	plans := movement.Plan(live, occ)
	explosions = append(explosions, movement.Apply(plans, occ)...)

	// 4. fire
	var fired []Bullet
	for _, t := range live {
		if !t.Destroyed() && t.TurretAction == ActionForward {
			fired = append(fired, NewBullet(w.ids.Next(), t))
		}
	}
	w.bullets = append(flown.Surviving, fired...)

	// 5. snapshot
	shown := make([]Bullet, 0, len(flown.Resolved)+len(fired))
	shown = append(shown, flown.Resolved...)
	shown = append(shown, fired...)
	snap := buildSnapshot(w.tick, tanks, shown, explosions, w.castles)

	// 6. intents are consumed
	for _, t := range tanks {
		t.clearIntents()
	}

	// 7. close the report window for this tick's wrecks
	for _, t := range tanks {
		t.settle()
	}

	w.tickSeen.Store(w.tick)
	return snap
}
