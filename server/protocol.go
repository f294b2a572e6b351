package main

// Client -> Server message types
const (
	MsgJoin   = "join"
	MsgAction = "action"
)

// Server -> Client message types
const (
	MsgInitialization = "initialization"
	MsgState          = "state"
	MsgError          = "error"
)

// Join roles
const (
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// State frame encodings a client can ask for at join
const (
	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	Type string      `json:"Type" msgpack:"Type"`
	Data interface{} `json:"Data" msgpack:"Data"`
}

// JoinMsg is the first message on every connection. Field names match
// case-insensitively.
type JoinMsg struct {
	Type     string `json:"type"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Team     string `json:"team"`
	Token    string `json:"token,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// ActionMsg carries the chassis (A) and turret (B) action codes for the next tick
type ActionMsg struct {
	Type string `json:"type"`
	A    int    `json:"a"`
	B    int    `json:"b"`
}

// HealthMsg is the /healthz body
type HealthMsg struct {
	Status      string `json:"status"`
	Tick        uint64 `json:"tick"`
	Tanks       int    `json:"tanks"`
	Connections int    `json:"connections"`
}
