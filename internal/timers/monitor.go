package timers

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TimeoutMonitor runs the match timeout sweep on a fixed interval,
// decoupled from any request cycle. The sweep itself is idempotent, so the
// monitor needs no per-room bookkeeping; a room resolved between two runs
// is simply skipped on the next one.
//
// One cron entry for the whole fleet trades precision for footprint: a
// match can outlive its limit by up to one interval. Per-room deadline
// tasks would be exact but need a timer per room plus cancellation on every
// terminal transition.
type TimeoutMonitor struct {
	cron  *cron.Cron
	sweep func()
	every string
	log   *zap.Logger
}

func NewTimeoutMonitor(every string, sweep func(), log *zap.Logger) *TimeoutMonitor {
	return &TimeoutMonitor{
		cron:  cron.New(),
		sweep: sweep,
		every: every,
		log:   log,
	}
}

func (m *TimeoutMonitor) Start() error {
	_, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.every), m.sweep)
	if err != nil {
		return fmt.Errorf("schedule timeout sweep: %w", err)
	}
	m.cron.Start()
	m.log.Info("timeout monitor started", zap.String("interval", m.every))
	return nil
}

func (m *TimeoutMonitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
		m.log.Info("timeout monitor stopped")
	}
}
