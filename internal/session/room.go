package session

import (
	"sync"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

// Room holds the connected subscribers of one match: the two players plus
// any spectators who joined after the match started.
type Room struct {
	ID      string
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewRoom(id string) *Room {
	return &Room{ID: id, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	return len(r.clients)
}

func (r *Room) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Broadcast sends a frame to every subscriber.
func (r *Room) Broadcast(frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.Send(frame)
	}
}

// BroadcastExcept sends a frame to everyone but the named user; used for
// opponent-submitted where the submitter already knows.
func (r *Room) BroadcastExcept(userID string, frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		if c.UserID == userID {
			continue
		}
		c.Send(frame)
	}
}
