package main

import "sync"

// Subscriber is a connection that receives state frames
type Subscriber interface {
	ID() string
	Encoding() string
	SendRaw(data []byte)
	SendBinary(data []byte)
}

// Roster tracks which connections receive state frames. It has its own lock
// and never touches the world, so routing never waits on a tick.
type Roster struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

// NewRoster creates an empty Roster
func NewRoster() *Roster {
	return &Roster{subs: make(map[string]Subscriber)}
}

// Add subscribes s to state frames
func (r *Roster) Add(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[s.ID()] = s
}

// Remove unsubscribes the connection with this id
func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
}

// Count returns the number of subscribers
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Snapshot returns the current subscribers
func (r *Roster) Snapshot() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		list = append(list, s)
	}
	return list
}
