// Package session is the realtime notification channel: one subscriber set
// per room, gorilla/websocket transport, at-most-once best-effort delivery.
package session

import (
	"sync"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

// Hub manages the subscriber sets of all active rooms.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

func (h *Hub) GetOrCreate(roomID string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[roomID]; ok {
		return r
	}
	r := NewRoom(roomID)
	h.rooms[roomID] = r
	return r
}

func (h *Hub) Delete(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomID)
}

// Broadcast delivers a frame to a room's subscribers. Unknown rooms are a
// no-op: nobody is listening yet.
func (h *Hub) Broadcast(roomID string, frame models.WSFrame) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if ok {
		room.Broadcast(frame)
	}
}

// BroadcastExcept delivers a frame to everyone in the room except userID.
func (h *Hub) BroadcastExcept(roomID, userID string, frame models.WSFrame) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if ok {
		room.BroadcastExcept(userID, frame)
	}
}
