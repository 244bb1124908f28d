package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLobbyTimerFires(t *testing.T) {
	m := NewLobbyTimerManager(zap.NewNop())
	fired := make(chan struct{})

	m.Schedule("ABC-123", 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("lobby timer did not fire")
	}
	assert.Eventually(t, func() bool { return m.Live() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLobbyTimerCancel(t *testing.T) {
	m := NewLobbyTimerManager(zap.NewNop())
	var fired atomic.Bool

	m.Schedule("ABC-123", 30*time.Millisecond, func() { fired.Store(true) })
	m.Cancel("ABC-123")

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load(), "cancelled timer must not fire")
	assert.Equal(t, 0, m.Live())

	// Cancelling again is harmless.
	m.Cancel("ABC-123")
}

func TestLobbyTimerRescheduleReplaces(t *testing.T) {
	m := NewLobbyTimerManager(zap.NewNop())
	var first, second atomic.Bool

	m.Schedule("ABC-123", 30*time.Millisecond, func() { first.Store(true) })
	m.Schedule("ABC-123", 10*time.Millisecond, func() { second.Store(true) })
	assert.Equal(t, 1, m.Live(), "at most one live timer per room")

	time.Sleep(80 * time.Millisecond)
	assert.False(t, first.Load())
	assert.True(t, second.Load())
}

func TestLobbyTimerShutdown(t *testing.T) {
	m := NewLobbyTimerManager(zap.NewNop())
	var fired atomic.Bool

	m.Schedule("AAA-111", 30*time.Millisecond, func() { fired.Store(true) })
	m.Schedule("BBB-222", 30*time.Millisecond, func() { fired.Store(true) })
	m.Shutdown()

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 0, m.Live())
}

func TestTimeoutMonitorRunsSweep(t *testing.T) {
	var runs atomic.Int32
	m := NewTimeoutMonitor("50ms", func() { runs.Add(1) }, zap.NewNop())

	assert.NoError(t, m.Start())
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	m.Stop()
	// Stop does not wait for an in-flight sweep; give one a moment to land.
	time.Sleep(100 * time.Millisecond)
	stopped := runs.Load()
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no sweeps after Stop")
}

func TestTimeoutMonitorRejectsBadInterval(t *testing.T) {
	m := NewTimeoutMonitor("not-a-duration", func() {}, zap.NewNop())
	assert.Error(t, m.Start())
}
