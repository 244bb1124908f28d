package models

import "time"

type CreateRoomReq struct {
	ProblemID string `json:"problemId"`
	HostID    string `json:"hostId"`
}

type CreateRoomResp struct {
	RoomID    string    `json:"roomId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token"`
}

type JoinRoomReq struct {
	UserID string `json:"userId"`
}

type JoinRoomResp struct {
	Status  string          `json:"status"`
	Problem ProblemSnapshot `json:"problem"`
	Token   string          `json:"token"`
}

// ProblemSnapshot is the client-visible slice of a problem. Hidden test
// cases are never included.
type ProblemSnapshot struct {
	ProblemID   string     `json:"problemId"`
	Title       string     `json:"title"`
	Difficulty  string     `json:"difficulty"`
	Prompt      string     `json:"prompt"`
	SampleTests []TestCase `json:"sampleTests"`
}

type ReadyReq struct {
	UserID string `json:"userId"`
}

type ReadyResp struct {
	Status string `json:"status"`
}

type SubmitReq struct {
	UserID   string `json:"userId"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

type SubmitResp struct {
	Result        string        `json:"result"`
	TestResults   []CaseVerdict `json:"testResults"`
	PassedCount   int           `json:"passedCount"`
	TotalCount    int           `json:"totalCount"`
	IsWinner      bool          `json:"isWinner"`
	MatchFinished bool          `json:"matchFinished"`
}

type RoomView struct {
	RoomID        string     `json:"roomId"`
	ProblemID     string     `json:"problemId"`
	Difficulty    string     `json:"difficulty"`
	HostID        string     `json:"hostId"`
	OpponentID    *string    `json:"opponentId,omitempty"`
	Status        string     `json:"status"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
	MatchDuration int        `json:"matchDuration"`
	WinnerID      *string    `json:"winnerId,omitempty"`
	OutcomeKind   string     `json:"outcomeKind,omitempty"`
	Submissions   []RoomViewSubmission `json:"submissions"`
	Token         string     `json:"token,omitempty"`
}

// RoomViewSubmission omits code and raw outputs; it is an audit line.
type RoomViewSubmission struct {
	SubmissionID string    `json:"submissionId"`
	UserID       string    `json:"userId"`
	Language     string    `json:"language"`
	Result       string    `json:"result"`
	PassedCount  int       `json:"passedCount"`
	TotalCount   int       `json:"totalCount"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

type Resp struct {
	OK   bool        `json:"ok"`
	Info interface{} `json:"info"`
}
