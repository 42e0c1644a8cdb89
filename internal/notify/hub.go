package notify

import (
	"context"
	"net/http"

	"takeaway-be/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards connect from other origins on the same LAN.
		return true
	},
}

// Hub bridges the in-process bus onto connected WebSocket clients.
// Every client receives every event; clients patch local state or
// re-fetch, the hub does not care which.
type Hub struct {
	bus        *Bus
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewHub(bus *Bus) *Hub {
	return &Hub{
		bus:        bus,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run consumes the bus subscription and fans events out until ctx is
// canceled. Single goroutine owns the clients map, so no lock is needed.
func (h *Hub) Run(ctx context.Context) {
	sub := h.bus.Subscribe(64)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return

		case conn := <-h.register:
			h.clients[conn] = true

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					logger.L().Warn("ws write failed", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// HandleWS upgrades the request and registers the connection. The event
// stream is one-way; inbound frames are read only to detect disconnect.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Warn("ws upgrade failed", zap.Error(err))
		return
	}

	h.register <- conn

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}
