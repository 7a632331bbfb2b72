package feed

import (
	"sync"

	"meetspace/internal/modules/booking"

	"github.com/gorilla/websocket"
)

// Hub fans booking events out to websocket subscribers, keyed by room.
// A connection subscribes to exactly one room.
type Hub struct {
	mutex sync.RWMutex
	rooms map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Subscribe(roomID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*websocket.Conn]bool)
		h.rooms[roomID] = subs
	}
	subs[conn] = true
}

func (h *Hub) Unsubscribe(roomID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if subs, ok := h.rooms[roomID]; ok {
		if subs[conn] {
			_ = conn.Close()
			delete(subs, conn)
		}
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// PublishBookingEvent implements booking.EventPublisher. Connections that
// fail a write are dropped; delivery is best effort.
func (h *Hub) PublishBookingEvent(roomID string, event booking.Event) {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[roomID]))
	for conn := range h.rooms[roomID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.Unsubscribe(roomID, conn)
		}
	}
}

func (h *Hub) SubscriberCount(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.rooms[roomID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for roomID, subs := range h.rooms {
		for conn := range subs {
			_ = conn.Close()
		}
		delete(h.rooms, roomID)
	}
}
