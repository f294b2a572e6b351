package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsAppliesStatDeltas(t *testing.T) {
	db := openTestDB(t)
	shooter, err := db.CreateAccount("shooter", "x")
	require.NoError(t, err)
	victim, err := db.CreateAccount("victim", "x")
	require.NoError(t, err)

	a := NewAnalytics(db, nil)
	a.Track(EvtJoin, "shooter", "s1", "")
	a.Track(EvtJoin, "victim", "s2", "")
	a.Record(ScoreEvent{Tick: 3, Kind: EvtTankKill, Shooter: "shooter", ShooterTeam: TeamRed, Victim: "victim", VictimTeam: TeamBlue})
	a.Record(ScoreEvent{Tick: 4, Kind: EvtCastleHit, Shooter: "shooter", ShooterTeam: TeamRed})
	a.Record(ScoreEvent{Tick: 5, Kind: EvtCollision, Victim: "victim", VictimTeam: TeamBlue})
	a.Record(ScoreEvent{Tick: 5, Kind: EvtTankKill, Shooter: "guest", Victim: "victim"})
	a.Stop()
	a.Stop()

	s, err := db.GetStats(shooter)
	require.NoError(t, err)
	assert.Equal(t, StatsRow{AccountID: shooter, Kills: 1, CastleHits: 1, Games: 1}, *s)

	v, err := db.GetStats(victim)
	require.NoError(t, err)
	assert.Equal(t, StatsRow{AccountID: victim, Deaths: 3, Collisions: 1, Games: 1}, *v)

	counts, err := a.EventCounts(1)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[EvtJoin])
	assert.Equal(t, 2, counts[EvtTankKill])
	assert.Equal(t, 1, counts[EvtCastleHit])
	assert.Equal(t, 1, counts[EvtCollision])

	active, err := a.ActiveUsers(1)
	require.NoError(t, err)
	assert.Equal(t, 3, active)

	board, err := db.GetLeaderboard("kills", 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "shooter", board[0].Username)
	assert.Equal(t, 1, board[0].Rank)
}

func TestMergeDeltas(t *testing.T) {
	events := []AnalyticsEvent{
		{delta: StatDelta{Username: "a", Kills: 1}, extra: &StatDelta{Username: "b", Deaths: 1}},
		{delta: StatDelta{Username: "a", Kills: 1}, extra: &StatDelta{Username: "b", Deaths: 1}},
		{delta: StatDelta{Username: "b", Games: 1}},
		{},
	}
	assert.Equal(t, []StatDelta{
		{Username: "a", Kills: 2},
		{Username: "b", Deaths: 2, Games: 1},
	}, mergeDeltas(events))
}

func TestAnalyticsWithoutDB(t *testing.T) {
	a := NewAnalytics(nil, nil)
	a.Record(ScoreEvent{Kind: EvtCastleHit, Shooter: "x"})
	a.Stop()

	n, err := a.ActiveUsers(7)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
