package main

import (
	"fmt"
	"sort"
)

// Score event kinds
const (
	EvtTankKill  = "tank_kill"
	EvtCastleHit = "castle_hit"
	EvtCollision = "collision"
)

// ScoreEvent records one confirmed impact or collision inside a tick
type ScoreEvent struct {
	Tick        uint64 `json:"tick"`
	Kind        string `json:"kind"`
	Shooter     string `json:"shooter,omitempty"`
	ShooterTeam Team   `json:"shooterTeam,omitempty"`
	Victim      string `json:"victim,omitempty"`
	VictimTeam  Team   `json:"victimTeam,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

// EventSink receives score events while the world lock is held, so Record
// must never block
type EventSink interface {
	Record(evt ScoreEvent)
}

type nopSink struct{}

func (nopSink) Record(ScoreEvent) {}

// ScoreKeeper awards points for hostile impacts during one tick
type ScoreKeeper struct {
	tick   uint64
	lookup func(username string) *Tank
	sink   EventSink
}

// award gives the shooter one point. A shooter that has left is ignored.
func (k *ScoreKeeper) award(username string) {
	if shooter := k.lookup(username); shooter != nil {
		shooter.Score++
	}
}

// TankDestroyed scores a hostile bullet that destroyed victim
func (k *ScoreKeeper) TankDestroyed(b Bullet, victim *Tank) {
	k.award(b.Username)
	k.sink.Record(ScoreEvent{
		Tick: k.tick, Kind: EvtTankKill,
		Shooter: b.Username, ShooterTeam: b.Team,
		Victim: victim.Username, VictimTeam: victim.Team,
		X: victim.X, Y: victim.Y,
	})
}

// CastleHit scores a hostile bullet that struck c at cell
func (k *ScoreKeeper) CastleHit(b Bullet, c *Castle, cell Cell) {
	k.award(b.Username)
	k.sink.Record(ScoreEvent{
		Tick: k.tick, Kind: EvtCastleHit,
		Shooter: b.Username, ShooterTeam: b.Team,
		VictimTeam: c.Team, X: cell.X, Y: cell.Y,
	})
}

// Collision reports tanks that destroyed each other. No points change.
func (k *ScoreKeeper) Collision(tanks []*Tank, at Cell) {
	for _, t := range tanks {
		k.sink.Record(ScoreEvent{
			Tick: k.tick, Kind: EvtCollision,
			Victim: t.Username, VictimTeam: t.Team,
			X: at.X, Y: at.Y,
		})
	}
}

// Scoreboard renders castle hit counts and the ranked score table
func Scoreboard(tanks []*Tank, castles []*Castle) []string {
	info := make([]string, 0, len(castles)+len(tanks)+1)
	for _, c := range castles {
		info = append(info, fmt.Sprintf("Castle %s: Hits %d", c.Team, c.Hits))
	}
	info = append(info, "Scores:")

	ranked := make([]*Tank, len(tanks))
	copy(ranked, tanks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for _, t := range ranked {
		status := ""
		if t.Destroyed() {
			status = " (destroyed)"
		}
		info = append(info, fmt.Sprintf("%s [%s] - %d%s", t.Username, t.Team, t.Score, status))
	}
	return info
}
