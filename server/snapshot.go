package main

// TankState is the public view of a tank
type TankState struct {
	Username    string `json:"Username" msgpack:"Username"`
	Team        Team   `json:"Team" msgpack:"Team"`
	X           int    `json:"X" msgpack:"X"`
	Y           int    `json:"Y" msgpack:"Y"`
	Base        int    `json:"Base" msgpack:"Base"`
	Head        int    `json:"Head" msgpack:"Head"`
	Score       int    `json:"Score" msgpack:"Score"`
	IsDestroyed bool   `json:"IsDestroyed" msgpack:"IsDestroyed"`
}

// BulletState is the public view of a bullet
type BulletState struct {
	ID        int64  `json:"Id" msgpack:"Id"`
	Username  string `json:"Username" msgpack:"Username"`
	Team      Team   `json:"Team" msgpack:"Team"`
	X         int    `json:"X" msgpack:"X"`
	Y         int    `json:"Y" msgpack:"Y"`
	Direction int    `json:"Direction" msgpack:"Direction"`
}

// Snapshot is the per-tick world view handed to the broadcaster. Every slice
// is freshly allocated, so it never aliases world state.
type Snapshot struct {
	Tick       uint64        `json:"Tick" msgpack:"Tick"`
	Tanks      []TankState   `json:"Tanks" msgpack:"Tanks"`
	Bullets    []BulletState `json:"Bullets" msgpack:"Bullets"`
	Explosions []Cell        `json:"Explosions" msgpack:"Explosions"`
	InfoText   []string      `json:"InfoText" msgpack:"InfoText"`
}

// GameInitialisation is the static map sent once per join
type GameInitialisation struct {
	Columns int      `json:"Columns" msgpack:"Columns"`
	Rows    int      `json:"Rows" msgpack:"Rows"`
	Castles []Castle `json:"Castles" msgpack:"Castles"`
	Rocks   []Rock   `json:"Rocks" msgpack:"Rocks"`
}

// buildSnapshot includes tanks that are alive or were destroyed this tick
func buildSnapshot(tick uint64, tanks []*Tank, bullets []Bullet, explosions []Cell, castles []*Castle) Snapshot {
	snap := Snapshot{
		Tick:       tick,
		Tanks:      make([]TankState, 0, len(tanks)),
		Bullets:    make([]BulletState, 0, len(bullets)),
		Explosions: make([]Cell, len(explosions)),
		InfoText:   Scoreboard(tanks, castles),
	}
	for _, t := range tanks {
		if t.Destroyed() && !t.DestroyedThisTurn() {
			continue
		}
		snap.Tanks = append(snap.Tanks, t.ToState())
	}
	for _, b := range bullets {
		snap.Bullets = append(snap.Bullets, b.ToState())
	}
	copy(snap.Explosions, explosions)
	return snap
}
