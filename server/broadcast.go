package main

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Broadcaster encodes each snapshot once per encoding and fans it out
type Broadcaster struct {
	roster  *Roster
	journal *Journal
	log     *zap.SugaredLogger
}

// NewBroadcaster creates a Broadcaster; journal may be nil
func NewBroadcaster(roster *Roster, journal *Journal, log *zap.SugaredLogger) *Broadcaster {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Broadcaster{roster: roster, journal: journal, log: log}
}

// Publish delivers snap to every subscriber. Sends never block; a slow or
// closed connection just misses the frame.
func (b *Broadcaster) Publish(snap Snapshot) {
	env := Envelope{Type: MsgState, Data: snap}
	text, err := json.Marshal(env)
	if err != nil {
		b.log.Errorw("encode state", "tick", snap.Tick, "err", err)
		return
	}

	var binary []byte
	for _, s := range b.roster.Snapshot() {
		if s.Encoding() != EncodingMsgpack {
			s.SendRaw(text)
			continue
		}
		if binary == nil {
			binary, err = msgpack.Marshal(env)
			if err != nil {
				b.log.Errorw("encode msgpack state", "tick", snap.Tick, "err", err)
				binary = []byte{}
			}
		}
		if len(binary) > 0 {
			s.SendBinary(binary)
		}
	}

	if b.journal != nil {
		if err := b.journal.Write(text); err != nil {
			b.log.Warnw("journal write", "tick", snap.Tick, "err", err)
		}
	}
}
