package main

import "sync/atomic"

// BulletStepsPerTick is the most cells a bullet advances in one tick
const BulletStepsPerTick = 4

// Bullet is a shell in flight. Its direction never changes.
type Bullet struct {
	ID        int64
	Username  string
	Team      Team
	X, Y      int
	Direction Direction
}

// NewBullet fires from the owner's cell along its turret
func NewBullet(id int64, owner *Tank) Bullet {
	return Bullet{
		ID:        id,
		Username:  owner.Username,
		Team:      owner.Team,
		X:         owner.X,
		Y:         owner.Y,
		Direction: owner.Turret,
	}
}

func (b Bullet) Cell() Cell { return Cell{X: b.X, Y: b.Y} }

func (b Bullet) at(c Cell) Bullet {
	b.X, b.Y = c.X, c.Y
	return b
}

// ToState converts to protocol state
func (b Bullet) ToState() BulletState {
	return BulletState{
		ID:        b.ID,
		Username:  b.Username,
		Team:      b.Team,
		X:         b.X,
		Y:         b.Y,
		Direction: int(b.Direction),
	}
}

// BulletIDs hands out strictly increasing identities; safe for concurrent use
type BulletIDs struct {
	last atomic.Int64
}

func (b *BulletIDs) Next() int64 {
	return b.last.Add(1)
}
