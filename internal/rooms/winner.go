package rooms

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Praveenkumar76/skypad-backend/internal/metrics"
	"github.com/Praveenkumar76/skypad-backend/internal/models"
	"github.com/Praveenkumar76/skypad-backend/internal/store"
	"github.com/Praveenkumar76/skypad-backend/internal/utils"
)

// recordAcceptance applies first-acceptance-wins. The store's guarded write
// decides the race: when both players' accepted submissions are graded
// concurrently, exactly one assignment lands and the other learns the room
// is already finished.
func (s *Service) recordAcceptance(ctx context.Context, room *models.Room, userID string) (isWinner, finished bool) {
	finishedAt := time.Now()
	duration := 0
	if room.StartedAt != nil {
		duration = int(finishedAt.Sub(*room.StartedAt).Seconds())
	}

	err := s.store.AssignWinner(room.RoomID, userID, finishedAt, duration)
	if errors.Is(err, store.ErrConflict) {
		// Lost the race; the submission stays in history.
		return false, true
	}
	if err != nil {
		s.log.Error("assign winner failed", zap.String("roomId", room.RoomID), zap.Error(err))
		return false, false
	}

	s.finishBroadcast(ctx, room, &userID, models.OutcomeAccepted, duration)
	return true, true
}

// maybeResolveBothSubmitted closes the match once both participants have
// submitted at least once without an outright accept.
func (s *Service) maybeResolveBothSubmitted(ctx context.Context, room *models.Room) bool {
	submitters, err := s.store.DistinctSubmitters(room.RoomID)
	if err != nil {
		s.log.Error("count submitters failed", zap.String("roomId", room.RoomID), zap.Error(err))
		return false
	}
	if submitters < 2 {
		return false
	}

	elapsed := 0
	if room.StartedAt != nil {
		elapsed = int(time.Since(*room.StartedAt).Seconds())
	}
	return s.resolveBestOf(ctx, room, elapsed)
}

// Sweep is the timeout monitor's entry point: every in_progress room whose
// clock ran out (or where both players already submitted) gets resolved.
// Rooms resolved by a concurrent path are skipped by the store guard, so
// re-running the sweep is a no-op.
func (s *Service) Sweep(ctx context.Context) {
	rooms, err := s.store.ListInProgress()
	if err != nil {
		s.log.Error("timeout sweep: list rooms failed", zap.Error(err))
		return
	}

	now := time.Now()
	for i := range rooms {
		room := rooms[i]
		if room.StartedAt == nil {
			continue
		}
		limit := utils.MatchTimeLimit(room.Difficulty)
		elapsed := now.Sub(*room.StartedAt)

		if elapsed >= limit {
			s.resolveBestOf(ctx, &room, int(limit.Seconds()))
			continue
		}
		submitters, err := s.store.DistinctSubmitters(room.RoomID)
		if err != nil {
			s.log.Error("timeout sweep: count submitters failed",
				zap.String("roomId", room.RoomID), zap.Error(err))
			continue
		}
		if submitters >= 2 {
			s.resolveBestOf(ctx, &room, int(elapsed.Seconds()))
		}
	}
}

// resolveBestOf compares each participant's best submission by hidden
// cases passed. Strictly more on one side is a partial win; equal counts
// (including zero) are a tie with the winner left unset. Reports whether
// this call performed the resolution.
func (s *Service) resolveBestOf(ctx context.Context, room *models.Room, duration int) bool {
	if room.OpponentID == nil {
		return false
	}

	bestHost, err := s.store.BestPassedCount(room.RoomID, room.HostID)
	if err != nil {
		s.log.Error("best count failed", zap.String("roomId", room.RoomID), zap.Error(err))
		return false
	}
	bestOpp, err := s.store.BestPassedCount(room.RoomID, *room.OpponentID)
	if err != nil {
		s.log.Error("best count failed", zap.String("roomId", room.RoomID), zap.Error(err))
		return false
	}

	var winnerID *string
	outcome := models.OutcomeTimeout
	switch {
	case bestHost > bestOpp:
		winnerID, outcome = &room.HostID, models.OutcomePartial
	case bestOpp > bestHost:
		winnerID, outcome = room.OpponentID, models.OutcomePartial
	}

	err = s.store.Resolve(room.RoomID, winnerID, outcome, time.Now(), duration)
	if errors.Is(err, store.ErrConflict) {
		return false
	}
	if err != nil {
		s.log.Error("resolve failed", zap.String("roomId", room.RoomID), zap.Error(err))
		return false
	}

	s.finishBroadcast(ctx, room, winnerID, outcome, duration)
	return true
}

// finishBroadcast fans out the terminal outcome: room subscribers get
// match-finished, the rewards ledger gets its settlement event.
func (s *Service) finishBroadcast(ctx context.Context, room *models.Room, winnerID *string, outcome string, duration int) {
	metrics.MatchesFinished.WithLabelValues(outcome).Inc()
	s.log.Info("match finished",
		zap.String("roomId", room.RoomID),
		zap.String("outcome", outcome),
		zap.Stringp("winnerId", winnerID),
		zap.Int("duration", duration))

	s.hub.Broadcast(room.RoomID, models.WSFrame{
		Type: models.EventMatchFinished,
		Data: models.MatchFinishedData{
			WinnerID:      winnerID,
			OutcomeKind:   outcome,
			MatchDuration: duration,
			Tie:           winnerID == nil,
		},
	})

	s.publisher.Publish(ctx, models.MatchFinishedEvent{
		RoomID:        room.RoomID,
		WinnerID:      winnerID,
		OutcomeKind:   outcome,
		MatchDuration: duration,
		Difficulty:    room.Difficulty,
	})
}
