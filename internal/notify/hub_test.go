package notify

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bus := NewBus(nil)
	defer bus.Close()

	hub := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to process registration.
	time.Sleep(100 * time.Millisecond)

	bus.Publish(EventOrderCreated, map[string]interface{}{"id": 12})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	err = conn.ReadJSON(&ev)
	require.NoError(t, err)
	assert.Equal(t, EventOrderCreated, ev.Name)
	assert.NotEmpty(t, ev.ID)
}

func TestHub_TwoClientsBothReceive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bus := NewBus(nil)
	defer bus.Close()

	hub := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn1, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn1.Close()

	conn2, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn2.Close()

	time.Sleep(100 * time.Millisecond)

	bus.Publish(EventMenuChanged, map[string]interface{}{"type": "add"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, EventMenuChanged, ev.Name)
	}
}

func TestHub_DisconnectedClientMissesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bus := NewBus(nil)
	defer bus.Close()

	hub := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	conn.Close()
	time.Sleep(100 * time.Millisecond)

	// Publishing with no connected clients must not block or panic.
	bus.Publish(EventOrderCanceled, nil)
}
