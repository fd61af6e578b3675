// internal/messaging/hub.go

package messaging

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub routes realtime events to connected users. A user may hold several
// connections; events go to all of them.
type Hub struct {
	clients    map[int64]map[*client]bool
	register   chan *client
	unregister chan *client
	events     chan targetedEvent
}

type targetedEvent struct {
	userID int64
	data   []byte
}

type client struct {
	hub    *Hub
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// NewHub creates a hub. Run must be started on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan targetedEvent, 256),
	}
}

// Run owns the client registry; all map access happens on this goroutine
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]bool)
			}
			h.clients[c.userID][c] = true

		case c := <-h.unregister:
			if conns, ok := h.clients[c.userID]; ok {
				if conns[c] {
					delete(conns, c)
					close(c.send)
					if len(conns) == 0 {
						delete(h.clients, c.userID)
					}
				}
			}

		case ev := <-h.events:
			for c := range h.clients[ev.userID] {
				select {
				case c.send <- ev.data:
				default:
					// Slow consumer; drop the connection rather than block
					delete(h.clients[ev.userID], c)
					close(c.send)
				}
			}
		}
	}
}

// SendToUser pushes an event to every open connection of a user. Offline
// users are silently skipped; messages are persisted regardless.
func (h *Hub) SendToUser(userID int64, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("messaging: marshal ws event: %v", err)
		return
	}
	h.events <- targetedEvent{userID: userID, data: data}
}

// ServeWS upgrades the request and attaches the connection to the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("messaging: ws upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump drains inbound frames. The server pushes only; client frames
// are used just to keep the connection alive.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("messaging: ws read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
