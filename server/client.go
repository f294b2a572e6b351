package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	// Set once by the join handshake
	role     string
	username string
	encoding string

	dropped bool // guarded by hub.mu
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         uuid.NewString(),
		remoteAddr: remoteAddr,
		encoding:   EncodingJSON,
	}
}

func (c *Client) ID() string       { return c.id }
func (c *Client) Encoding() string { return c.encoding }

// ReadPump reads messages from the WebSocket connection. The first message
// must be a join; everything after it is an action. The connection itself is
// closed by WritePump once the hub closes send, so a queued join error still
// reaches the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	if !c.handshake() {
		return
	}

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debugw("ws read", "conn", c.id, "err", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > c.hub.limits.MaxMessagesPerSec {
			c.hub.log.Warnw("rate limit exceeded, disconnecting", "ip", c.remoteAddr, "conn", c.id)
			break
		}

		c.handleMessage(message)
	}
}

// handshake reads and applies the join message. It returns false when the
// connection should be closed.
func (c *Client) handshake() bool {
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return false
	}
	kind, err := c.hub.validator.Kind(raw)
	if kind == MsgJoin && err != nil {
		rej := joinRejection(err)
		c.hub.log.Infow("join rejected", "conn", c.id, "err", err)
		c.SendJSON(Envelope{Type: MsgError, Data: joinErrorMessage(rej)})
		return false
	}
	if err != nil || kind != MsgJoin {
		c.hub.log.Debugw("dropping connection without join", "conn", c.id, "kind", kind, "err", err)
		return false
	}
	var msg JoinMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return false
	}

	adm, err := c.hub.Admit(msg)
	if err != nil {
		c.hub.log.Infow("join rejected", "conn", c.id, "username", msg.Username, "err", err)
		c.SendJSON(Envelope{Type: MsgError, Data: joinErrorMessage(err)})
		return false
	}

	c.role = adm.role
	c.username = adm.username
	if strings.EqualFold(msg.Encoding, EncodingMsgpack) {
		c.encoding = EncodingMsgpack
	}

	c.SendJSON(Envelope{Type: MsgInitialization, Data: c.hub.world.Initialisation()})
	c.hub.roster.Add(c)

	if c.username != "" {
		if c.hub.analytics != nil {
			c.hub.analytics.Track(EvtJoin, c.username, c.id, "")
		}
		c.hub.log.Infow("player joined", "username", c.username, "team", adm.tank.Team,
			"x", adm.tank.X, "y", adm.tank.Y, "conn", c.id)
	} else {
		c.hub.log.Infow("spectator joined", "conn", c.id)
	}
	return true
}

// handleMessage applies an action. Anything else, or anything malformed, is
// dropped.
func (c *Client) handleMessage(raw []byte) {
	kind, err := c.hub.validator.Kind(raw)
	if err != nil {
		c.hub.log.Debugw("invalid message", "conn", c.id, "err", err)
		return
	}
	if kind != MsgAction || c.role != RolePlayer {
		return
	}
	var msg ActionMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	chassis, ok := ParseAction(msg.A)
	if !ok {
		return
	}
	turret, ok := ParseAction(msg.B)
	if !ok {
		return
	}
	c.hub.world.SetPendingIntent(c.username, chassis, turret)
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Errorw("marshal", "conn", c.id, "err", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}
