package main

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// World owns the whole battlefield. Every mutation, including Advance, runs
// under mu; the atomics mirror a few counters for lock-free readers.
type World struct {
	mu      sync.Mutex
	terrain *Terrain
	castles []*Castle
	rocks   []Rock
	tanks   map[string]*Tank // normalised username -> tank
	bullets []Bullet
	ids     BulletIDs
	spawner *SpawnAllocator
	sink    EventSink
	tick    uint64

	tankCount atomic.Int32
	tickSeen  atomic.Uint64
}

// NewWorld builds a world from a static layout. A nil sink discards events.
func NewWorld(layout Layout, spawner *SpawnAllocator, sink EventSink) *World {
	if sink == nil {
		sink = nopSink{}
	}
	castles := make([]*Castle, len(layout.Castles))
	for i := range layout.Castles {
		c := layout.Castles[i]
		castles[i] = &c
	}
	rocks := make([]Rock, len(layout.Rocks))
	copy(rocks, layout.Rocks)

	return &World{
		terrain: NewTerrain(layout.Columns, layout.Rows, castles, rocks),
		castles: castles,
		rocks:   rocks,
		tanks:   make(map[string]*Tank),
		spawner: spawner,
		sink:    sink,
	}
}

// HasUsername reports whether a tank with this name exists, ignoring case
func (w *World) HasUsername(username string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.tanks[normaliseUsername(username)]
	return ok
}

// CreateTank spawns a tank for username on team's home row. The duplicate
// check is repeated here so two racing joins cannot both succeed.
func (w *World) CreateTank(username string, team Team) (TankState, error) {
	name := strings.TrimSpace(username)
	key := normaliseUsername(name)
	if key == "" {
		return TankState{}, ErrMissingUsername
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.tanks[key]; ok {
		return TankState{}, ErrDuplicateUsername
	}
	cell, dir, err := w.spawner.Allocate(team, w.terrain, w.sortedTanks())
	if err != nil {
		return TankState{}, err
	}
	t := NewTank(name, team, cell, dir)
	w.tanks[key] = t
	w.tankCount.Store(int32(len(w.tanks)))
	return t.ToState(), nil
}

// SetPendingIntent replaces a tank's intents for the next tick. Unknown
// usernames are ignored.
func (w *World) SetPendingIntent(username string, chassis, turret Action) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.tanks[normaliseUsername(username)]; ok {
		t.ChassisAction = chassis
		t.TurretAction = turret
	}
}

// RemoveTank deletes a tank from the world; removing an absent tank is a no-op
func (w *World) RemoveTank(username string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := normaliseUsername(username)
	t, ok := w.tanks[key]
	if !ok {
		return
	}
	t.Life = LifeRemoved
	delete(w.tanks, key)
	w.tankCount.Store(int32(len(w.tanks)))
}

// Initialisation returns the static map sent to every new client
func (w *World) Initialisation() GameInitialisation {
	w.mu.Lock()
	defer w.mu.Unlock()
	gi := GameInitialisation{
		Columns: w.terrain.Cols(),
		Rows:    w.terrain.Rows(),
		Castles: make([]Castle, len(w.castles)),
		Rocks:   make([]Rock, len(w.rocks)),
	}
	for i, c := range w.castles {
		gi.Castles[i] = *c
	}
	copy(gi.Rocks, w.rocks)
	return gi
}

// Advance runs exactly one tick and returns its snapshot
func (w *World) Advance() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.advanceLocked()
}

// TankCount is safe to call without the world lock
func (w *World) TankCount() int { return int(w.tankCount.Load()) }

// Tick is the number of the last completed tick; safe without the world lock
func (w *World) Tick() uint64 { return w.tickSeen.Load() }

// sortedTanks returns tanks ordered by normalised username. Caller holds mu.
func (w *World) sortedTanks() []*Tank {
	keys := make([]string, 0, len(w.tanks))
	for k := range w.tanks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tanks := make([]*Tank, len(keys))
	for i, k := range keys {
		tanks[i] = w.tanks[k]
	}
	return tanks
}

// lookupTank finds a tank by username. Caller holds mu.
func (w *World) lookupTank(username string) *Tank {
	return w.tanks[normaliseUsername(username)]
}
