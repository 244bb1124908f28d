package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

func recordingClient(userID string, got *[]models.WSFrame, mu *sync.Mutex) *Client {
	c := NewClient(userID, nil)
	c.SetSendHook(func(f models.WSFrame) {
		mu.Lock()
		*got = append(*got, f)
		mu.Unlock()
	})
	return c
}

func TestHubGetOrCreateReusesRoom(t *testing.T) {
	h := NewHub()
	r1 := h.GetOrCreate("ABC-123")
	r2 := h.GetOrCreate("ABC-123")
	assert.Same(t, r1, r2)

	h.Delete("ABC-123")
	r3 := h.GetOrCreate("ABC-123")
	assert.NotSame(t, r1, r3)
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	room := h.GetOrCreate("ABC-123")

	var mu sync.Mutex
	var got1, got2 []models.WSFrame
	room.Join(recordingClient("host", &got1, &mu))
	room.Join(recordingClient("opp", &got2, &mu))

	h.Broadcast("ABC-123", models.WSFrame{Type: models.EventMatchStarted})

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got1, 1)
	assert.Len(t, got2, 1)
	assert.Equal(t, models.EventMatchStarted, got1[0].Type)
}

func TestBroadcastExceptSkipsSender(t *testing.T) {
	h := NewHub()
	room := h.GetOrCreate("ABC-123")

	var mu sync.Mutex
	var hostGot, oppGot []models.WSFrame
	room.Join(recordingClient("host", &hostGot, &mu))
	room.Join(recordingClient("opp", &oppGot, &mu))

	h.BroadcastExcept("ABC-123", "host", models.WSFrame{Type: models.EventOpponentSubmitted})

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, hostGot)
	assert.Len(t, oppGot, 1)
}

func TestBroadcastUnknownRoomIsNoOp(t *testing.T) {
	h := NewHub()
	assert.NotPanics(t, func() {
		h.Broadcast("ZZZ-000", models.WSFrame{Type: models.EventRoomExpired})
	})
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := NewHub()
	room := h.GetOrCreate("ABC-123")

	var mu sync.Mutex
	var got []models.WSFrame
	c := recordingClient("host", &got, &mu)
	room.Join(c)
	assert.Equal(t, 1, room.SubscriberCount())

	remaining := room.Leave(c)
	assert.Equal(t, 0, remaining)

	h.Broadcast("ABC-123", models.WSFrame{Type: models.EventMatchFinished})
	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, got)
}
