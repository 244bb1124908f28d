// Package rewards hands terminal match outcomes to the rewards ledger.
// The ledger (coins, XP, streaks) runs elsewhere; this side only publishes
// and never waits on a consumer.
package rewards

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

// Channel carries match.finished events to the rewards ledger.
const Channel = "match.finished"

// Publisher emits match-finished events over redis pub/sub.
type Publisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewPublisher(rdb *redis.Client, log *zap.Logger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

// Publish is fire-and-forget: a failed publish is logged, never surfaced.
// Match resolution must not depend on the ledger being reachable.
func (p *Publisher) Publish(ctx context.Context, event models.MatchFinishedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal match.finished event", zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		p.log.Warn("publish match.finished event failed",
			zap.String("roomId", event.RoomID), zap.Error(err))
	}
}
