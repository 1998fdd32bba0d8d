package httpserver

import (
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fairdex/auction-monitor/internal/monitor"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsSendBufferSize = 16
)

// Hub fans auction snapshot updates out to connected websocket clients.
// Slow clients are dropped rather than allowed to stall the broadcast.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new websocket hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// HandleWS handles GET /ws requests, upgrading them to websocket
// connections subscribed to auction updates.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws-upgrade-failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[client] = struct{}{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws-client-connected", zap.Int("clients", clientCount))

	go h.writeLoop(client)
	go h.readLoop(client)
}

// Forward consumes snapshots from the monitor's update channel and
// broadcasts them until the channel is closed.
func (h *Hub) Forward(updates <-chan *monitor.Snapshot) {
	for snap := range updates {
		h.Broadcast(snap)
	}
}

// Broadcast sends a snapshot to every connected client.
func (h *Hub) Broadcast(snap *monitor.Snapshot) {
	payload, err := json.Marshal(toAuctionResponse(snap))
	if err != nil {
		h.logger.Error("ws-marshal-failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Client cannot keep up, drop it.
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn("ws-client-dropped-slow")
		}
	}
}

// Close disconnects all clients and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writeLoop(client *wsClient) {
	defer func() {
		_ = client.conn.Close()
	}()

	for payload := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		err := client.conn.WriteMessage(websocket.TextMessage, payload)
		if err != nil {
			h.remove(client)
			return
		}
	}

	_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = client.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop drains incoming messages so close and ping frames are
// processed. Clients are not expected to send data.
func (h *Hub) readLoop(client *wsClient) {
	for {
		_, _, err := client.conn.ReadMessage()
		if err != nil {
			h.remove(client)
			return
		}
	}
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
