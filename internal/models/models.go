package models

import (
	"time"

	"gorm.io/gorm"
)

// Room statuses. A room only ever moves forward through these.
const (
	StatusWaiting    = "waiting"
	StatusStarting   = "starting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	StatusExpired    = "expired"
)

// Submission results. Grading is synchronous, so every persisted
// submission is already one or the other.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Outcome kinds recorded on a finished room.
const (
	OutcomeAccepted = "accepted"
	OutcomePartial  = "partial"
	OutcomeTimeout  = "timeout"
)

// Difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Room is one head-to-head match between exactly two players.
type Room struct {
	gorm.Model
	RoomID         string     `gorm:"uniqueIndex;not null" json:"roomId"`
	ProblemID      string     `gorm:"not null" json:"problemId"`
	Difficulty     string     `gorm:"not null" json:"difficulty"`
	HostID         string     `gorm:"not null" json:"hostId"`
	OpponentID     *string    `json:"opponentId,omitempty"`
	Status         string     `gorm:"index;not null" json:"status"`
	LobbyExpiresAt time.Time  `json:"lobbyExpiresAt"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	MatchDuration  int        `json:"matchDuration"` // seconds
	HostReady      bool       `json:"hostReady"`
	OpponentReady  bool       `json:"opponentReady"`
	WinnerID       *string    `json:"winnerId,omitempty"`
	OutcomeKind    string     `json:"outcomeKind,omitempty"`
}

// IsParticipant reports whether userID is the host or the opponent.
func (r *Room) IsParticipant(userID string) bool {
	if userID == r.HostID {
		return true
	}
	return r.OpponentID != nil && *r.OpponentID == userID
}

// Submission is one graded attempt. Rows are append-only.
type Submission struct {
	gorm.Model
	SubmissionID string    `gorm:"uniqueIndex;not null" json:"submissionId"`
	RoomID       string    `gorm:"index;not null" json:"roomId"`
	UserID       string    `gorm:"not null" json:"userId"`
	Code         string    `gorm:"type:text;not null" json:"-"`
	Language     string    `gorm:"not null" json:"language"`
	Result       string    `gorm:"not null" json:"result"`
	PassedCount  int       `json:"passedCount"`
	TotalCount   int       `json:"totalCount"`
	TestResults  string    `gorm:"type:text" json:"-"` // JSON-encoded []CaseVerdict
	SubmittedAt  time.Time `json:"submittedAt"`
}

// CaseVerdict is the persisted per-test-case outcome of a submission.
type CaseVerdict struct {
	Passed          bool   `json:"passed"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
	ErrorKind       string `json:"errorKind,omitempty"`
}

// TestCase feeds one input to the program and holds the expected output.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}
