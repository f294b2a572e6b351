package main

import "strings"

// Team is one of the two factions
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// ParseTeam accepts a team name case-insensitively
func ParseTeam(s string) (Team, bool) {
	switch Team(strings.ToLower(strings.TrimSpace(s))) {
	case TeamRed:
		return TeamRed, true
	case TeamBlue:
		return TeamBlue, true
	}
	return "", false
}

// HomeRow is the row a team spawns on: red on top, blue on the bottom
func (t Team) HomeRow(rows int) int {
	if t == TeamRed {
		return 0
	}
	return rows - 1
}

// Forward is the heading that points from the home row toward the enemy
func (t Team) Forward() Direction {
	if t == TeamRed {
		return DirDown
	}
	return DirUp
}

// Lifecycle tracks a tank from spawn to removal
type Lifecycle int

const (
	LifeAlive Lifecycle = iota
	// LifeDestroyedPendingReport lasts for the tick that destroyed the tank
	LifeDestroyedPendingReport
	LifeDestroyed
	// LifeRemoved is only reached through disconnect
	LifeRemoved
)

// Action is a pending chassis or turret intent
type Action int

const (
	ActionIdle           Action = 0
	ActionRotatePositive Action = 1
	ActionRotateNegative Action = 2
	ActionForward        Action = 3 // move for the chassis, fire for the turret
)

// ParseAction maps a wire code to an Action
func ParseAction(code int) (Action, bool) {
	a := Action(code)
	switch a {
	case ActionIdle, ActionRotatePositive, ActionRotateNegative, ActionForward:
		return a, true
	}
	return ActionIdle, false
}

// rotation is the quarter-turn delta an action applies
func (a Action) rotation() int {
	switch a {
	case ActionRotatePositive:
		return 1
	case ActionRotateNegative:
		return -1
	}
	return 0
}

// Tank is a player's vehicle
type Tank struct {
	Username string
	Team     Team
	X, Y     int
	Chassis  Direction
	Turret   Direction
	Score    int
	Life     Lifecycle

	ChassisAction Action
	TurretAction  Action
}

// NewTank creates a live tank at spawn with both chassis and turret facing dir
func NewTank(username string, team Team, spawn Cell, dir Direction) *Tank {
	return &Tank{
		Username: username,
		Team:     team,
		X:        spawn.X,
		Y:        spawn.Y,
		Chassis:  dir,
		Turret:   dir,
		Life:     LifeAlive,
	}
}

func (t *Tank) Cell() Cell { return Cell{X: t.X, Y: t.Y} }

// Destroyed is true from the destroying tick until removal
func (t *Tank) Destroyed() bool {
	return t.Life == LifeDestroyedPendingReport || t.Life == LifeDestroyed
}

// DestroyedThisTurn is true only during the tick that destroyed the tank
func (t *Tank) DestroyedThisTurn() bool {
	return t.Life == LifeDestroyedPendingReport
}

// destroy marks a live tank destroyed; it returns false if it already was
func (t *Tank) destroy() bool {
	if t.Life != LifeAlive {
		return false
	}
	t.Life = LifeDestroyedPendingReport
	return true
}

// settle ends the report window opened by destroy
func (t *Tank) settle() {
	if t.Life == LifeDestroyedPendingReport {
		t.Life = LifeDestroyed
	}
}

func (t *Tank) applyRotations() {
	t.Chassis = t.Chassis.Rotate(t.ChassisAction.rotation())
	t.Turret = t.Turret.Rotate(t.TurretAction.rotation())
}

func (t *Tank) clearIntents() {
	t.ChassisAction = ActionIdle
	t.TurretAction = ActionIdle
}

// ToState converts to protocol state
func (t *Tank) ToState() TankState {
	return TankState{
		Username:    t.Username,
		Team:        t.Team,
		X:           t.X,
		Y:           t.Y,
		Base:        int(t.Chassis),
		Head:        int(t.Turret),
		Score:       t.Score,
		IsDestroyed: t.Destroyed(),
	}
}
