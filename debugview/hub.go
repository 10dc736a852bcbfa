// Package debugview streams debug overlays to browsers over websockets.
package debugview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	defaultSendBuf      = 16
	defaultBroadcastBuf = 64
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "debugview",
})

// envelope is the wire format of every message.
type envelope struct {
	Type string      `json:"type"`
	Ts   time.Time   `json:"ts"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans messages out to every connected client. Clients which can't keep
// up are disconnected rather than allowed to block the walker.
type Hub struct {
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu      sync.Mutex
	clients map[*client]struct{}

	// Closed once Run returns, after which nothing reads the channels above.
	done chan struct{}
	stop sync.Once

	sendBuf int
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	addr string
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, defaultBroadcastBuf),
		register:   make(chan *client, 8),
		unregister: make(chan *client, 8),
		clients:    map[*client]struct{}{},
		done:       make(chan struct{}),
		sendBuf:    defaultSendBuf,
	}
}

// Run processes hub events until ctx is canceled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	log.Info("hub starting")

	for {
		select {
		case <-ctx.Done():
			log.Info("hub stopping")
			h.stop.Do(func() { close(h.done) })
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Infof("client %s connected (clients=%d)", c.addr, n)

		case c := <-h.unregister:
			h.remove(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.remove(c, "slow")
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if c.conn != nil {
			c.conn.Close()
		}

		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	if c.conn != nil {
		c.conn.Close()
	}

	close(c.send)
	log.Infof("client %s disconnected: %s (clients=%d)", c.addr, reason, n)
}

// join registers a client, and returns false if the hub has stopped.
func (h *Hub) join(c *client) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters a client. Once the hub has stopped, every client has
// already been dropped.
func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish encodes a message and queues it for every client. It never blocks;
// if the queue is full, the message is dropped.
func (h *Hub) Publish(typ string, data any) {
	msg, err := json.Marshal(envelope{Type: typ, Ts: time.Now().UTC(), Data: data})
	if err != nil {
		log.Errorf("%s (while encoding %s)", err, typ)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		log.Warnf("broadcast queue full, dropping %s", typ)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request to a websocket, and streams messages to it
// until either end hangs up.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("%s (while upgrading %s)", err, r.RemoteAddr)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.sendBuf),
		addr: r.RemoteAddr,
	}

	if !h.join(c) {
		conn.Close()
		return
	}

	// The pumps outlive the request, so they mustn't use its context.
	go c.writePump()
	go c.readPump()
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debugf("%s (while writing to %s)", err, c.addr)
				}
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

// readPump discards everything the client sends, and unregisters it once the
// connection fails.
func (c *client) readPump() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			log.Debugf("%s (while reading from %s)", err, c.addr)
			c.hub.leave(c)
			return
		}
	}
}

// Serve runs an HTTP server with the hub at /ws until ctx is canceled.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("serving debug view on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
