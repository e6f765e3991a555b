package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bodul/folio/internal/reserve"
)

const (
	streamBuffer    = 16
	streamHeartbeat = 30 * time.Second
)

// subscriber is one open event stream on a reserve session.
type subscriber struct {
	states chan reserve.State
}

// stateEvent is the payload of every stream message.
type stateEvent struct {
	Type  string        `json:"type"`
	State reserve.State `json:"state"`
}

// Broadcaster pushes reserve state changes to the streams open on each session.
type Broadcaster struct {
	mu       sync.RWMutex
	sessions map[string]map[*subscriber]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		sessions: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe opens a subscription on a session.
func (b *Broadcaster) Subscribe(sessionID string) *subscriber {
	sub := &subscriber{states: make(chan reserve.State, streamBuffer)}
	b.mu.Lock()
	subs, ok := b.sessions[sessionID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		b.sessions[sessionID] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe closes a subscription. Closing twice is a no-op.
func (b *Broadcaster) Unsubscribe(sessionID string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.sessions[sessionID]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.states)
	if len(subs) == 0 {
		delete(b.sessions, sessionID)
	}
}

// Broadcast hands st to every subscriber of the session. A subscriber whose buffer
// is full misses it; the next state supersedes it anyway.
func (b *Broadcaster) Broadcast(sessionID string, st reserve.State) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.sessions[sessionID] {
		select {
		case sub.states <- st:
		default:
		}
	}
}

// Subscribers returns the number of open streams on a session.
func (b *Broadcaster) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions[sessionID])
}

// ServeSSE streams a session's states, starting with initial, until the request ends.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, sessionID string, initial reserve.State) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := b.Subscribe(sessionID)
	defer b.Unsubscribe(sessionID, sub)

	if err := writeState(w, initial); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-sub.states:
			if !ok {
				return
			}
			if err := writeState(w, st); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func writeState(w http.ResponseWriter, st reserve.State) error {
	data, err := json.Marshal(stateEvent{Type: "state", State: st})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
