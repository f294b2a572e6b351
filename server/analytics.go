package main

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types for analytics tracking. Score events reuse the ScoreEvent kinds.
const (
	EvtJoin  = "join"
	EvtLeave = "leave"
)

const (
	analyticsBuffer     = 1024
	analyticsBatch      = 50
	analyticsFlushEvery = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	Username  string
	SessionID string
	Data      string // JSON metadata (optional)
	Timestamp time.Time

	delta StatDelta
	extra *StatDelta
}

// Analytics handles event tracking with batched background writes. It is the
// world's EventSink, so lifetime stats follow confirmed hits.
type Analytics struct {
	db     *DB
	log    *zap.SugaredLogger
	events chan AnalyticsEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB, log *zap.SugaredLogger) *Analytics {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	a := &Analytics{
		db:     db,
		log:    log,
		events: make(chan AnalyticsEvent, analyticsBuffer),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType, username, sessionID, data string) {
	evt := AnalyticsEvent{
		Type:      evtType,
		Username:  username,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	if evtType == EvtJoin && username != "" {
		evt.delta = StatDelta{Username: username, Games: 1}
	}
	a.enqueue(evt)
}

// Record implements EventSink. It is called with the world lock held.
func (a *Analytics) Record(se ScoreEvent) {
	data, _ := json.Marshal(se)
	evt := AnalyticsEvent{
		Type:      se.Kind,
		Username:  se.Shooter,
		Data:      string(data),
		Timestamp: time.Now().UTC(),
	}
	switch se.Kind {
	case EvtTankKill:
		evt.delta = StatDelta{Username: se.Shooter, Kills: 1}
		evt.extra = &StatDelta{Username: se.Victim, Deaths: 1}
	case EvtCastleHit:
		evt.delta = StatDelta{Username: se.Shooter, CastleHits: 1}
	case EvtCollision:
		evt.Username = se.Victim
		evt.delta = StatDelta{Username: se.Victim, Collisions: 1, Deaths: 1}
	}
	a.enqueue(evt)
}

func (a *Analytics) enqueue(evt AnalyticsEvent) {
	select {
	case a.events <- evt:
	default:
		// full; the tick never waits on the database
	}
}

// Stop drains pending events and shuts the writer down. Safe to call twice.
func (a *Analytics) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(analyticsFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatch {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
		drain:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					break drain
				}
			}
			a.flush(batch)
			return
		}
	}
}

// flush writes a batch of events and their stat deltas
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	if err := a.insertEvents(events); err != nil {
		a.log.Errorw("analytics insert", "events", len(events), "err", err)
	}
	if err := a.db.ApplyStatDeltas(mergeDeltas(events)); err != nil {
		a.log.Errorw("analytics stats", "err", err)
	}
}

func (a *Analytics) insertEvents(events []AnalyticsEvent) error {
	tx, err := a.db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, username, session_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, evt := range events {
		user := sql.NullString{String: evt.Username, Valid: evt.Username != ""}
		sid := sql.NullString{String: evt.SessionID, Valid: evt.SessionID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, user, sid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// mergeDeltas sums per-user deltas so each account is updated once per batch
func mergeDeltas(events []AnalyticsEvent) []StatDelta {
	index := make(map[string]int)
	var out []StatDelta
	add := func(d StatDelta) {
		if d.Username == "" {
			return
		}
		i, ok := index[d.Username]
		if !ok {
			index[d.Username] = len(out)
			out = append(out, d)
			return
		}
		out[i].Kills += d.Kills
		out[i].Deaths += d.Deaths
		out[i].CastleHits += d.CastleHits
		out[i].Collisions += d.Collisions
		out[i].Games += d.Games
	}
	for _, evt := range events {
		add(evt.delta)
		if evt.extra != nil {
			add(*evt.extra)
		}
	}
	return out
}

// --- Query methods for the API ---

// ActiveUsers returns the number of distinct usernames seen in the last N days
func (a *Analytics) ActiveUsers(days int) (int, error) {
	if a.db == nil {
		return 0, nil
	}
	var count int
	err := a.db.conn.QueryRow(`
		SELECT COUNT(DISTINCT username) FROM analytics_events
		WHERE username IS NOT NULL AND created_at >= date('now', '-' || ? || ' days')
	`, days).Scan(&count)
	return count, err
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// DailyActiveHistory returns distinct active usernames per day for the last N days
func (a *Analytics) DailyActiveHistory(days int) ([]DayCount, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT date(created_at) as day, COUNT(DISTINCT username)
		FROM analytics_events
		WHERE username IS NOT NULL AND created_at >= date('now', '-' || ? || ' days')
		GROUP BY day ORDER BY day
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			continue
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

// DayCount holds a count for a specific day
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
