package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub manages all connected clients and their link to the world
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	world     *World
	roster    *Roster
	validator *MessageValidator
	auth      *Auth
	db        *DB
	analytics *Analytics
	limits    LimitsConfig
	log       *zap.SugaredLogger

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// HubDeps are the collaborators a Hub routes to. Auth, DB and Analytics may be nil.
type HubDeps struct {
	World     *World
	Roster    *Roster
	Validator *MessageValidator
	Auth      *Auth
	DB        *DB
	Analytics *Analytics
	Limits    LimitsConfig
	Log       *zap.SugaredLogger
}

// NewHub creates a new Hub
func NewHub(deps HubDeps) *Hub {
	log := deps.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	limits := deps.Limits
	def := DefaultConfig().Limits
	if limits.MaxConnsPerIP <= 0 {
		limits.MaxConnsPerIP = def.MaxConnsPerIP
	}
	if limits.MaxTotalConns <= 0 {
		limits.MaxTotalConns = def.MaxTotalConns
	}
	if limits.MaxMessagesPerSec <= 0 {
		limits.MaxMessagesPerSec = def.MaxMessagesPerSec
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		world:      deps.World,
		roster:     deps.Roster,
		validator:  deps.Validator,
		auth:       deps.Auth,
		db:         deps.DB,
		analytics:  deps.Analytics,
		limits:     limits,
		log:        log,
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.limits.MaxTotalConns {
		return false
	}
	if h.ipConns[ip] >= h.limits.MaxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			h.drop(client)

		case <-ctx.Done():
			return
		}
	}
}

// Register hands a new client to Run. It reports false once Run has exited.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// add tracks a registered client. A client already dropped stays out.
func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client.dropped {
		return
	}
	h.clients[client] = true
}

// drop forgets a client and removes its tank, if it had one. It closes send
// even when the client's register has not been handled yet.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	if !client.dropped {
		client.dropped = true
		close(client.send)
	}
	h.mu.Unlock()

	h.roster.Remove(client.id)
	if client.username == "" {
		return
	}
	h.world.RemoveTank(client.username)
	if h.analytics != nil {
		h.analytics.Track(EvtLeave, client.username, client.id, "")
	}
	h.log.Infow("player left", "username", client.username, "conn", client.id)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
