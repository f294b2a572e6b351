package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// AccountRow is a registered account
type AccountRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow is an account's lifetime record
type StatsRow struct {
	AccountID  int64 `json:"-"`
	Kills      int   `json:"kills"`
	Deaths     int   `json:"deaths"`
	CastleHits int   `json:"castle_hits"`
	Collisions int   `json:"collisions"`
	Games      int   `json:"games"`
}

// StatDelta is an increment to one account's stats, keyed by username
type StatDelta struct {
	Username   string
	Kills      int
	Deaths     int
	CastleHits int
	Collisions int
	Games      int
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	CastleHits int    `json:"castle_hits"`
	Games      int    `json:"games"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		account_id INTEGER PRIMARY KEY REFERENCES accounts(id),
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		castle_hits INTEGER NOT NULL DEFAULT 0,
		collisions INTEGER NOT NULL DEFAULT 0,
		games INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		username TEXT,
		session_id TEXT,
		data TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type, created_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateAccount creates an account and its stats row, returning the account ID
func (db *DB) CreateAccount(username, passHash string) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO accounts (username, pass_hash) VALUES (?, ?)", username, passHash)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec("INSERT INTO stats (account_id) VALUES (?)", id); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// GetAccountByUsername returns nil, nil when no account matches
func (db *DB) GetAccountByUsername(username string) (*AccountRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM accounts WHERE username = ?",
		username,
	)
	a := &AccountRow{}
	err := row.Scan(&a.ID, &a.Username, &a.PassHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// UsernameExists checks if a username belongs to an account
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM accounts WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetStats returns nil, nil for an unknown account
func (db *DB) GetStats(accountID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT account_id, kills, deaths, castle_hits, collisions, games FROM stats WHERE account_id = ?",
		accountID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.AccountID, &s.Kills, &s.Deaths, &s.CastleHits, &s.Collisions, &s.Games)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// ApplyStatDeltas adds deltas to registered accounts in one transaction.
// Usernames without an account are skipped.
func (db *DB) ApplyStatDeltas(deltas []StatDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE stats SET
			kills = kills + ?,
			deaths = deaths + ?,
			castle_hits = castle_hits + ?,
			collisions = collisions + ?,
			games = games + ?
		WHERE account_id = (SELECT id FROM accounts WHERE username = ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range deltas {
		if _, err := stmt.Exec(d.Kills, d.Deaths, d.CastleHits, d.Collisions, d.Games, d.Username); err != nil {
			return fmt.Errorf("stats for %s: %w", d.Username, err)
		}
	}
	return tx.Commit()
}

// GetLeaderboard returns top accounts sorted by the given field
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		"kills": "s.kills", "castle_hits": "s.castle_hits", "games": "s.games",
		"kd": "CASE WHEN s.deaths > 0 THEN CAST(s.kills AS REAL)/s.deaths ELSE s.kills END",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.kills"
	}

	query := `SELECT a.username, s.kills, s.deaths, s.castle_hits, s.games
		FROM stats s JOIN accounts a ON a.id = s.account_id
		ORDER BY ` + col + ` DESC, a.username ASC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Kills, &e.Deaths, &e.CastleHits, &e.Games); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetSetting returns "" when the key is unset or unreadable
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting upserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
