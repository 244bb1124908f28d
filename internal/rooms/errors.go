package rooms

import (
	"errors"

	"github.com/Praveenkumar76/skypad-backend/internal/store"
)

// ErrRoomNotFound re-exports the store sentinel so handlers only deal with
// this package's errors.
var ErrRoomNotFound = store.ErrRoomNotFound

// Typed rejections. None of these mutate state and all are safe to retry
// after re-reading room status.
var (
	ErrValidation         = errors.New("invalid request")
	ErrSelfJoin           = errors.New("cannot join your own room")
	ErrRoomFull           = errors.New("room already has two players")
	ErrRoomExpired        = errors.New("room expired")
	ErrNotParticipant     = errors.New("user is not a participant of this room")
	ErrNotStarting        = errors.New("room is not in the ready phase")
	ErrMatchNotInProgress = errors.New("match is not in progress")
)
