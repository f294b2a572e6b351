package main

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type credentialsMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenMsg struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	ID       int64  `json:"id,omitempty"`
}

type adminStatsMsg struct {
	ActiveToday int            `json:"active_today"`
	ActiveWeek  int            `json:"active_week"`
	Events      map[string]int `json:"events"`
	Daily       []DayCount     `json:"daily"`
	Tick        uint64         `json:"tick"`
	Tanks       int            `json:"tanks"`
	Connections int            `json:"connections"`
	Clients     int            `json:"clients"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, staticDir, publicURL string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warnw("upgrade", "ip", ip, "err", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		if !hub.Register(client) {
			hub.TrackDisconnect(ip)
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthMsg{
			Status:      "ok",
			Tick:        hub.world.Tick(),
			Tanks:       hub.world.TankCount(),
			Connections: hub.TotalConns(),
		})
	})

	mux.HandleFunc("GET /qr", qrHandler(publicURL))

	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		if hub.auth == nil {
			writeError(w, http.StatusNotFound, errNoAccounts.Error())
			return
		}
		var msg credentialsMsg
		if !readJSON(w, r, &msg) {
			return
		}
		id, token, err := hub.auth.Register(msg.Username, msg.Password)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, tokenMsg{Token: token, Username: strings.TrimSpace(msg.Username), ID: id})
	})

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		if hub.auth == nil {
			writeError(w, http.StatusNotFound, errNoAccounts.Error())
			return
		}
		var msg credentialsMsg
		if !readJSON(w, r, &msg) {
			return
		}
		id, token, err := hub.auth.Login(msg.Username, msg.Password, extractIP(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tokenMsg{Token: token, Username: strings.TrimSpace(msg.Username), ID: id})
	})

	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		if hub.db == nil {
			writeJSON(w, http.StatusOK, []LeaderboardEntry{})
			return
		}
		limit := 20
		if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
			limit = n
		}
		entries, err := hub.db.GetLeaderboard(r.URL.Query().Get("by"), limit)
		if err != nil {
			hub.log.Errorw("leaderboard", "err", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		if entries == nil {
			entries = []LeaderboardEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	})

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		if hub.auth == nil || hub.db == nil {
			writeError(w, http.StatusNotFound, errNoAccounts.Error())
			return
		}
		id, _, err := hub.auth.ValidateToken(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		stats, err := hub.db.GetStats(id)
		if err != nil {
			hub.log.Errorw("stats", "account", id, "err", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		if stats == nil {
			writeError(w, http.StatusNotFound, "no stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if hub.auth == nil {
			writeError(w, http.StatusNotFound, errNotAdmin.Error())
			return
		}
		var msg credentialsMsg
		if !readJSON(w, r, &msg) {
			return
		}
		token, err := hub.auth.AdminLogin(msg.Password, extractIP(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tokenMsg{Token: token})
	})

	mux.HandleFunc("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if hub.auth == nil || hub.auth.ValidateAdminToken(token) != nil {
			writeError(w, http.StatusUnauthorized, errNotAdmin.Error())
			return
		}
		stats := adminStatsMsg{
			Tick:        hub.world.Tick(),
			Tanks:       hub.world.TankCount(),
			Connections: hub.TotalConns(),
			Clients:     hub.ClientCount(),
		}
		if hub.analytics != nil {
			var err error
			if stats.ActiveToday, err = hub.analytics.ActiveUsers(1); err != nil {
				hub.log.Warnw("admin stats", "err", err)
			}
			stats.ActiveWeek, _ = hub.analytics.ActiveUsers(7)
			stats.Events, _ = hub.analytics.EventCounts(7)
			stats.Daily, _ = hub.analytics.DailyActiveHistory(30)
		}
		writeJSON(w, http.StatusOK, stats)
	})

	return mux
}
