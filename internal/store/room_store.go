// Package store is the single source of truth for rooms and submissions.
// Every state transition is a conditional UPDATE keyed by room code and the
// expected current state; zero rows affected means the precondition no
// longer holds and nothing was mutated. Winner assignment in particular is
// guarded in the database, not by an in-process lock, because the two
// players' submissions may be graded on independent goroutines or even
// separate instances.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	// ErrConflict means a guarded transition found the room in a different
	// state than expected. Safe to retry after re-reading status.
	ErrConflict = errors.New("room state conflict")
)

type RoomStore struct {
	DB *gorm.DB
}

func NewRoomStore(db *gorm.DB) *RoomStore {
	return &RoomStore{DB: db}
}

// AutoMigrate creates the rooms and submissions tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Room{}, &models.Submission{})
}

func (s *RoomStore) CreateRoom(room *models.Room) error {
	return s.DB.Create(room).Error
}

func (s *RoomStore) GetRoom(roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.First(&room, "room_id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	return &room, err
}

// RoomCodeTaken reports whether a room code is already in use.
func (s *RoomStore) RoomCodeTaken(roomID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Room{}).Where("room_id = ?", roomID).Count(&count).Error
	return count > 0, err
}

// AddOpponent fills the second seat: waiting -> starting. The guard rejects
// a second joiner racing for the seat.
func (s *RoomStore) AddOpponent(roomID, userID string) error {
	result := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND status = ? AND opponent_id IS NULL", roomID, models.StatusWaiting).
		Updates(map[string]interface{}{
			"opponent_id": userID,
			"status":      models.StatusStarting,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// ExpireRoom transitions waiting -> expired. Returns false without error
// when the room already left waiting (the lobby timer lost the race to a
// joining player).
func (s *RoomStore) ExpireRoom(roomID string) (bool, error) {
	result := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND status = ?", roomID, models.StatusWaiting).
		Update("status", models.StatusExpired)
	return result.RowsAffected > 0, result.Error
}

// SetReady marks one participant ready while the room is starting. Marking
// twice is a no-op by construction. The updated room is returned so the
// caller can see whether both sides are now ready.
func (s *RoomStore) SetReady(roomID string, host bool) (*models.Room, error) {
	column := "opponent_ready"
	if host {
		column = "host_ready"
	}
	result := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND status = ?", roomID, models.StatusStarting).
		Update(column, true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConflict
	}
	return s.GetRoom(roomID)
}

// StartMatch transitions starting -> in_progress once both sides are ready
// and stamps startedAt. Idempotent under concurrent ready handlers: only
// the first transition succeeds.
func (s *RoomStore) StartMatch(roomID string, startedAt time.Time) (bool, error) {
	result := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND status = ? AND host_ready = ? AND opponent_ready = ?",
			roomID, models.StatusStarting, true, true).
		Updates(map[string]interface{}{
			"status":     models.StatusInProgress,
			"started_at": startedAt,
		})
	return result.RowsAffected > 0, result.Error
}

// AssignWinner records the first full acceptance: in_progress -> finished
// with the submitter as winner. The winner_id IS NULL guard makes the first
// write win; a concurrently accepted opposing submission gets ErrConflict
// and its result is recorded as history only.
func (s *RoomStore) AssignWinner(roomID, winnerID string, finishedAt time.Time, duration int) error {
	result := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND status = ? AND winner_id IS NULL", roomID, models.StatusInProgress).
		Updates(map[string]interface{}{
			"status":         models.StatusFinished,
			"winner_id":      winnerID,
			"outcome_kind":   models.OutcomeAccepted,
			"finished_at":    finishedAt,
			"match_duration": duration,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Resolve closes an in_progress room from the timeout/both-submitted path.
// winnerID may be nil (tie). Already-finished rooms are left untouched.
func (s *RoomStore) Resolve(roomID string, winnerID *string, outcomeKind string, finishedAt time.Time, duration int) error {
	updates := map[string]interface{}{
		"status":         models.StatusFinished,
		"outcome_kind":   outcomeKind,
		"finished_at":    finishedAt,
		"match_duration": duration,
	}
	if winnerID != nil {
		updates["winner_id"] = *winnerID
	}
	result := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND status = ? AND winner_id IS NULL", roomID, models.StatusInProgress).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// ListInProgress returns every room the timeout monitor must inspect.
func (s *RoomStore) ListInProgress() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Where("status = ?", models.StatusInProgress).Find(&rooms).Error
	return rooms, err
}

func (s *RoomStore) AppendSubmission(sub *models.Submission) error {
	return s.DB.Create(sub).Error
}

// ListSubmissions returns a room's full history in submission order.
func (s *RoomStore) ListSubmissions(roomID string) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.DB.Where("room_id = ?", roomID).Order("id asc").Find(&subs).Error
	return subs, err
}

// BestPassedCount returns the highest hidden-case pass count among a
// participant's submissions, zero when they never submitted.
func (s *RoomStore) BestPassedCount(roomID, userID string) (int, error) {
	var best *int
	err := s.DB.Model(&models.Submission{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Select("max(passed_count)").
		Scan(&best).Error
	if err != nil || best == nil {
		return 0, err
	}
	return *best, nil
}

// DistinctSubmitters counts how many different participants have submitted.
func (s *RoomStore) DistinctSubmitters(roomID string) (int, error) {
	var count int64
	err := s.DB.Model(&models.Submission{}).
		Where("room_id = ?", roomID).
		Distinct("user_id").
		Count(&count).Error
	return int(count), err
}
