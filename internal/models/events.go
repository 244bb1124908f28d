package models

// Websocket event types broadcast to a room's subscribers.
const (
	EventPlayerJoined      = "player-joined"
	EventRoomExpired       = "room-expired"
	EventMatchCountdown    = "match-countdown"
	EventMatchStarted      = "match-started"
	EventOpponentSubmitted = "opponent-submitted"
	EventMatchFinished     = "match-finished"
)

// WSFrame is the wire format of every room event.
type WSFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type PlayerJoinedData struct {
	UserID string `json:"userId"`
}

type CountdownData struct {
	Tick int `json:"tick"`
}

type MatchStartedData struct {
	StartedAt string `json:"startedAt"`
}

// OpponentSubmittedData discloses presence only, never the result.
type OpponentSubmittedData struct {
	UserID string `json:"userId"`
}

type MatchFinishedData struct {
	WinnerID      *string `json:"winnerId"`
	OutcomeKind   string  `json:"outcomeKind"`
	MatchDuration int     `json:"matchDuration"`
	Tie           bool    `json:"tie"`
}

// MatchFinishedEvent is published to the rewards ledger on every terminal
// resolution. The ledger's payout policy is its own business.
type MatchFinishedEvent struct {
	RoomID        string  `json:"roomId"`
	WinnerID      *string `json:"winnerId"`
	OutcomeKind   string  `json:"outcomeKind"`
	MatchDuration int     `json:"matchDuration"`
	Difficulty    string  `json:"difficulty"`
}
