// Command bot joins a tank battle server as a player and answers every
// state frame with a weighted random action.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// forward is weighted so bots move and fire more often than they turn
var actionWeights = []int{0, 1, 2, 3, 3, 3, 3}

type envelope struct {
	Type string          `json:"Type"`
	Data json.RawMessage `json:"Data"`
}

type joinMsg struct {
	Type     string `json:"type"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Team     string `json:"team"`
	Token    string `json:"token,omitempty"`
}

type actionMsg struct {
	Type string `json:"type"`
	A    int    `json:"a"`
	B    int    `json:"b"`
}

type stateMsg struct {
	Tick    uint64            `json:"Tick"`
	Tanks   []json.RawMessage `json:"Tanks"`
	Bullets []json.RawMessage `json:"Bullets"`
}

type initMsg struct {
	Castles []json.RawMessage `json:"Castles"`
	Rocks   []json.RawMessage `json:"Rocks"`
}

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "Server WebSocket URL")
	username := flag.String("username", "", "Tank name (default: random)")
	team := flag.String("team", "red", "Team: red or blue")
	token := flag.String("token", "", "Account token for a registered username")
	count := flag.Int("n", 1, "Number of bots to run")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Sugar()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{}, *count)
	for i := 0; i < *count; i++ {
		name := *username
		if name == "" {
			name = fmt.Sprintf("bot-%04x", rand.IntN(0x10000))
		} else if *count > 1 {
			name = fmt.Sprintf("%s-%d", name, i+1)
		}
		go func() {
			defer func() { done <- struct{}{} }()
			if err := runBot(ctx, *addr, name, *team, *token, log.With("bot", name)); err != nil {
				log.Errorw("bot stopped", "bot", name, "err", err)
			}
		}()
	}
	for i := 0; i < *count; i++ {
		<-done
	}
}

func runBot(ctx context.Context, addr, username, team, token string, log *zap.SugaredLogger) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	join := joinMsg{Type: "join", Role: "player", Username: username, Team: team, Token: token}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		switch strings.ToLower(env.Type) {
		case "initialization":
			var im initMsg
			if err := json.Unmarshal(env.Data, &im); err == nil {
				log.Infow("joined", "castles", len(im.Castles), "rocks", len(im.Rocks))
			}
		case "state":
			var st stateMsg
			if err := json.Unmarshal(env.Data, &st); err != nil {
				continue
			}
			act := chooseAction()
			if err := conn.WriteJSON(act); err != nil {
				return fmt.Errorf("send action: %w", err)
			}
			log.Debugw("turn", "tick", st.Tick, "tanks", len(st.Tanks), "bullets", len(st.Bullets), "a", act.A, "b", act.B)
		case "error":
			var msg string
			json.Unmarshal(env.Data, &msg)
			return fmt.Errorf("server: %s", msg)
		}
	}
}

func chooseAction() actionMsg {
	return actionMsg{
		Type: "action",
		A:    actionWeights[rand.IntN(len(actionWeights))],
		B:    actionWeights[rand.IntN(len(actionWeights))],
	}
}
