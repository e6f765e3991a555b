package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/folio/internal/reserve"
)

func receive(t *testing.T, sub *subscriber) reserve.State {
	t.Helper()
	select {
	case st := <-sub.states:
		return st
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no state received")
		return reserve.State{}
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	a1 := b.Subscribe("a")
	a2 := b.Subscribe("a")
	other := b.Subscribe("b")

	assert.Equal(t, 2, b.Subscribers("a"))
	assert.Equal(t, 1, b.Subscribers("b"))

	b.Unsubscribe("a", a1)
	b.Unsubscribe("a", a1)
	assert.Equal(t, 1, b.Subscribers("a"))

	b.Unsubscribe("a", a2)
	b.Unsubscribe("b", other)
	assert.Zero(t, b.Subscribers("a"))
	assert.Empty(t, b.sessions, "empty sessions are dropped")

	_, open := <-a1.states
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestBroadcastStaysWithinSession(t *testing.T) {
	b := NewBroadcaster()
	mine := b.Subscribe("a")
	theirs := b.Subscribe("b")
	defer b.Unsubscribe("a", mine)
	defer b.Unsubscribe("b", theirs)

	flow := reserve.New(testGrid)
	require.NoError(t, flow.Start())
	require.NoError(t, flow.Toggle(reserve.Cell{Row: 2, Col: 2}))
	b.Broadcast("a", flow.Snapshot())

	got := receive(t, mine)
	assert.Equal(t, reserve.Select, got.Screen)
	assert.Equal(t, []reserve.Cell{{Row: 2, Col: 2}}, got.Selected)
	assert.Equal(t, 10, got.Area)

	select {
	case st := <-theirs.states:
		t.Fatalf("other session received %+v", st)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("a")
	defer b.Unsubscribe("a", sub)

	for range streamBuffer + 3 {
		b.Broadcast("a", reserve.State{Screen: reserve.Summary})
	}
	assert.Len(t, sub.states, streamBuffer)
}

func TestBroadcasterConcurrent(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := range 40 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"a", "b", "c"}[i%3]
			sub := b.Subscribe(id)
			b.Broadcast(id, reserve.State{Screen: reserve.Home})
			b.Subscribers(id)
			b.Unsubscribe(id, sub)
		}(i)
	}
	wg.Wait()

	for _, id := range []string{"a", "b", "c"} {
		assert.Zero(t, b.Subscribers(id))
	}
}

// readEvent returns the payload of the next data line.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			return strings.TrimSpace(data)
		}
	}
}

func TestReserveEventStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	sess := srv.store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/api/reserve/"+sess.ID+"/events", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
	body := bufio.NewReader(resp.Body)

	var evt stateEvent
	if err := json.Unmarshal([]byte(readEvent(t, body)), &evt); err != nil {
		t.Fatal(err)
	}
	if evt.Type != "state" || evt.State.Screen != reserve.Home {
		t.Fatalf("unexpected initial event %+v", evt)
	}

	// Wait for the stream to be registered before acting on the session.
	deadline := time.Now().Add(time.Second)
	for srv.sse.Subscribers(sess.ID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	act, err := ts.Client().Post(ts.URL+"/api/reserve/"+sess.ID+"/start", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	act.Body.Close()
	if act.StatusCode != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", act.StatusCode)
	}

	if err := json.Unmarshal([]byte(readEvent(t, body)), &evt); err != nil {
		t.Fatal(err)
	}
	if evt.State.Screen != reserve.Select {
		t.Fatalf("expected select screen, got %q", evt.State.Screen)
	}
}

func TestReserveEventStreamUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/reserve/nope/events", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
