// Package timers owns the scheduled work around rooms: one-shot lobby
// expiries keyed by room id and the recurring match timeout sweep.
package timers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// LobbyTimerManager schedules at most one live expiry timer per room. The
// timer is cancelled the moment the room fills so a stale expiry can never
// fire after the match has progressed, and Shutdown stops everything on
// process exit.
type LobbyTimerManager struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	log    *zap.Logger
}

func NewLobbyTimerManager(log *zap.Logger) *LobbyTimerManager {
	return &LobbyTimerManager{timers: make(map[string]*time.Timer), log: log}
}

// Schedule arms the expiry callback for a room. Scheduling again for the
// same room replaces the previous timer.
func (m *LobbyTimerManager) Schedule(roomID string, d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.timers[roomID]; ok {
		old.Stop()
	}
	m.timers[roomID] = time.AfterFunc(d, func() {
		m.mu.Lock()
		delete(m.timers, roomID)
		m.mu.Unlock()
		fn()
	})
	m.log.Debug("lobby timer armed", zap.String("roomId", roomID), zap.Duration("in", d))
}

// Cancel disarms a room's timer. Cancelling an unknown or already-fired
// timer is a no-op.
func (m *LobbyTimerManager) Cancel(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if timer, ok := m.timers[roomID]; ok {
		timer.Stop()
		delete(m.timers, roomID)
	}
}

// Shutdown stops every live timer.
func (m *LobbyTimerManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for roomID, timer := range m.timers {
		timer.Stop()
		delete(m.timers, roomID)
	}
}

// Live returns the number of armed timers.
func (m *LobbyTimerManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
