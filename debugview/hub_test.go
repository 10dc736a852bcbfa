package debugview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub()
	go h.Run(ctx)
	return h
}

// stoppedHub returns a hub whose Run has already returned.
func stoppedHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub didn't stop")
	}

	return h
}

func TestBroadcast(t *testing.T) {
	h := runHub(t)

	c1 := &client{hub: h, send: make(chan []byte, 4), addr: "c1"}
	c2 := &client{hub: h, send: make(chan []byte, 4), addr: "c2"}
	h.register <- c1
	h.register <- c2
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, time.Millisecond)

	h.Publish("overlay", map[string]int{"n": 1})

	for _, c := range []*client{c1, c2} {
		select {
		case msg := <-c.send:
			var env struct {
				Type string         `json:"type"`
				Data map[string]int `json:"data"`
			}

			require.NoError(t, json.Unmarshal(msg, &env))
			assert.Equal(t, "overlay", env.Type)
			assert.Equal(t, 1, env.Data["n"])

		case <-time.After(time.Second):
			t.Fatalf("client %s got nothing", c.addr)
		}
	}
}

func TestSlowClientDropped(t *testing.T) {
	h := runHub(t)

	slow := &client{hub: h, send: make(chan []byte), addr: "slow"}
	h.register <- slow
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, time.Millisecond)

	h.Publish("overlay", nil)
	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, time.Millisecond)

	// The hub closed its queue.
	_, ok := <-slow.send
	assert.False(t, ok)
}

func TestServeHTTP(t *testing.T) {
	h := runHub(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, time.Millisecond)
	h.Publish("overlay", map[string]string{"state": "sSettle"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"state":"sSettle"`)

	// Hanging up unregisters the client.
	conn.Close()
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, time.Millisecond)
}

func TestLeaveAfterStop(t *testing.T) {
	h := stoppedHub(t)

	// Far more than the hub's queues hold, so the sends can't all be buffered.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			c := &client{hub: h, send: make(chan []byte, 1), addr: "late"}
			assert.False(t, h.join(c))
			h.leave(c)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked on a stopped hub")
	}
}

func TestServeHTTPAfterStop(t *testing.T) {
	h := stoppedHub(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	for i := 0; i < 20; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)

		// The server hangs up straight away.
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = conn.ReadMessage()
		assert.Error(t, err)
		assert.False(t, errors.Is(err, os.ErrDeadlineExceeded), "connection %d was left open", i)
		conn.Close()
	}

	assert.Equal(t, 0, h.Clients())
}
