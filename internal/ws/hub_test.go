package ws

import (
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(log.New(io.Discard, "", 0))
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run()
	}()
	t.Cleanup(func() {
		h.Stop()
		<-done
	})
	return h
}

func testClient(h *Hub) *Client {
	return &Client{hub: h, send: make(chan []byte, 4)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var e Event
		require.NoError(t, json.Unmarshal(b, &e))
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestHub_BroadcastReachesRoomOnly(t *testing.T) {
	h := startHub(t)
	a, b := testClient(h), testClient(h)
	h.Register(a, "chat:1", "profile:1")
	h.Register(b, "profile:2")
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.Broadcast("chat:1", "message.new", map[string]int{"id": 9})
	e := receive(t, a)
	require.Equal(t, "message.new", e.Event)
	require.Equal(t, "chat:1", e.Room)

	h.Broadcast("profile:2", "notification", "hi")
	require.Equal(t, "notification", receive(t, b).Event)
	require.Empty(t, a.send)
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	h := startHub(t)
	c := testClient(h)
	h.Register(c, "chat:7")
	require.Eventually(t, func() bool { return h.RoomSize("chat:7") == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.RoomSize("chat:7") == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.send
	require.False(t, ok)
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	slow := &Client{hub: h, send: make(chan []byte)}
	h.Register(slow, "chat:3")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast("chat:3", "message.new", nil)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClientsAndIsIdempotent(t *testing.T) {
	h := NewHub(log.New(io.Discard, "", 0))
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run()
	}()

	c := testClient(h)
	h.Register(c, "profile:5")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()
	<-done
	_, ok := <-c.send
	require.False(t, ok)

	h.Register(testClient(h), "profile:6")
	h.Unregister(c)
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.Broadcast("chat:1", "x", nil)
	h.Stop()
	require.Zero(t, h.ClientCount())
}
