package ws

import (
	"sync"

	"github.com/gorilla/websocket"

	"superchat/internal/metrics"
)

// Hub tracks active WebSocket connections keyed by room. Event delivery
// happens per connection through its realtime subscription; the hub exists
// for accounting and teardown.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection for the given room.
func (h *Hub) Register(roomID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[roomID] == nil {
		h.conns[roomID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[roomID][conn] = struct{}{}
	metrics.WsConnections.Inc()
}

// Unregister removes a connection for the given room.
func (h *Hub) Unregister(roomID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.conns[roomID]; ok {
		if _, ok := conns[conn]; ok {
			delete(conns, conn)
			metrics.WsConnections.Dec()
		}
		if len(conns) == 0 {
			delete(h.conns, roomID)
		}
	}
}

// RoomCount returns the number of active connections in a room.
func (h *Hub) RoomCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[roomID])
}

// CloseAll closes every tracked connection. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID, conns := range h.conns {
		for conn := range conns {
			conn.Close()
			metrics.WsConnections.Dec()
		}
		delete(h.conns, roomID)
	}
}
