package rooms

import (
	"github.com/Praveenkumar76/skypad-backend/internal/models"
	"github.com/Praveenkumar76/skypad-backend/internal/utils"
)

// GetRoomView builds the full audit view of a room. Hidden test cases are
// never part of it. When spectatorID is non-empty and the match has
// started, a room token is minted so the caller can subscribe to the event
// stream.
func (s *Service) GetRoomView(roomID, spectatorID string) (*models.RoomView, error) {
	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(roomID)
	if err != nil {
		return nil, err
	}

	view := &models.RoomView{
		RoomID:        room.RoomID,
		ProblemID:     room.ProblemID,
		Difficulty:    room.Difficulty,
		HostID:        room.HostID,
		OpponentID:    room.OpponentID,
		Status:        room.Status,
		StartedAt:     room.StartedAt,
		FinishedAt:    room.FinishedAt,
		MatchDuration: room.MatchDuration,
		WinnerID:      room.WinnerID,
		OutcomeKind:   room.OutcomeKind,
		Submissions:   make([]models.RoomViewSubmission, 0, len(subs)),
	}
	for _, sub := range subs {
		view.Submissions = append(view.Submissions, models.RoomViewSubmission{
			SubmissionID: sub.SubmissionID,
			UserID:       sub.UserID,
			Language:     sub.Language,
			Result:       sub.Result,
			PassedCount:  sub.PassedCount,
			TotalCount:   sub.TotalCount,
			SubmittedAt:  sub.SubmittedAt,
		})
	}

	started := room.Status == models.StatusInProgress || room.Status == models.StatusFinished
	if spectatorID != "" && started {
		token, err := utils.GenerateRoomToken(roomID, spectatorID, s.jwtSecret)
		if err == nil {
			view.Token = token
		}
	}
	return view, nil
}

// JWTSecret exposes the signing key to the websocket handler.
func (s *Service) JWTSecret() []byte { return s.jwtSecret }
