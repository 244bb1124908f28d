// Package rooms is the match lifecycle orchestrator: room creation and
// joining, the ready/countdown phase, submission grading and winner
// resolution. All room state lives in the store; this package enforces the
// transition rules and fans out notifications.
package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Praveenkumar76/skypad-backend/internal/exec"
	"github.com/Praveenkumar76/skypad-backend/internal/metrics"
	"github.com/Praveenkumar76/skypad-backend/internal/models"
	"github.com/Praveenkumar76/skypad-backend/internal/problems"
	"github.com/Praveenkumar76/skypad-backend/internal/session"
	"github.com/Praveenkumar76/skypad-backend/internal/store"
	"github.com/Praveenkumar76/skypad-backend/internal/timers"
	"github.com/Praveenkumar76/skypad-backend/internal/utils"
)

const countdownTicks = 3

// EventPublisher hands terminal outcomes to the rewards ledger.
type EventPublisher interface {
	Publish(ctx context.Context, event models.MatchFinishedEvent)
}

type Service struct {
	store     *store.RoomStore
	problems  problems.Store
	runner    *exec.Runner
	hub       *session.Hub
	lobby     *timers.LobbyTimerManager
	publisher EventPublisher
	log       *zap.Logger

	jwtSecret         []byte
	lobbyTTL          time.Duration
	countdownInterval time.Duration

	// countdowns dedups the countdown goroutine when both players' ready
	// requests race. Winner assignment never relies on this; it is guarded
	// in the store.
	countdownMu sync.Mutex
	countdowns  map[string]struct{}
}

type Config struct {
	JWTSecret         []byte
	LobbyTTL          time.Duration
	CountdownInterval time.Duration
}

func NewService(
	st *store.RoomStore,
	probs problems.Store,
	runner *exec.Runner,
	hub *session.Hub,
	lobby *timers.LobbyTimerManager,
	publisher EventPublisher,
	log *zap.Logger,
	cfg Config,
) *Service {
	if cfg.LobbyTTL <= 0 {
		cfg.LobbyTTL = 5 * time.Minute
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = time.Second
	}
	return &Service{
		store:             st,
		problems:          probs,
		runner:            runner,
		hub:               hub,
		lobby:             lobby,
		publisher:         publisher,
		log:               log,
		jwtSecret:         cfg.JWTSecret,
		lobbyTTL:          cfg.LobbyTTL,
		countdownInterval: cfg.CountdownInterval,
		countdowns:        make(map[string]struct{}),
	}
}

// CreateRoom opens a lobby for hostID on the given problem and arms its
// expiry timer.
func (s *Service) CreateRoom(ctx context.Context, problemID, hostID string) (*models.CreateRoomResp, error) {
	if problemID == "" || hostID == "" {
		return nil, ErrValidation
	}

	problem, err := s.problems.GetProblem(ctx, problemID)
	if err != nil {
		return nil, err
	}

	code, err := s.allocateRoomCode()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.lobbyTTL)
	room := &models.Room{
		RoomID:         code,
		ProblemID:      problem.ProblemID,
		Difficulty:     problem.Difficulty,
		HostID:         hostID,
		Status:         models.StatusWaiting,
		LobbyExpiresAt: expiresAt,
	}
	if err := s.store.CreateRoom(room); err != nil {
		return nil, err
	}

	s.lobby.Schedule(code, s.lobbyTTL, func() { s.expireRoom(code) })
	metrics.RoomsCreated.Inc()
	s.log.Info("room created",
		zap.String("roomId", code),
		zap.String("problemId", problemID),
		zap.String("hostId", hostID))

	token, err := utils.GenerateRoomToken(code, hostID, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &models.CreateRoomResp{RoomID: code, ExpiresAt: expiresAt, Token: token}, nil
}

// expireRoom is the lobby timer callback: waiting -> expired, host
// notified. Losing the race to a joining player is expected and silent.
func (s *Service) expireRoom(roomID string) {
	expired, err := s.store.ExpireRoom(roomID)
	if err != nil {
		s.log.Error("expire room failed", zap.String("roomId", roomID), zap.Error(err))
		return
	}
	if !expired {
		return
	}
	metrics.RoomsExpired.Inc()
	s.log.Info("room expired", zap.String("roomId", roomID))
	s.hub.Broadcast(roomID, models.WSFrame{Type: models.EventRoomExpired})
	s.hub.Delete(roomID)
}

// JoinRoom seats userID as the opponent: waiting -> starting, lobby timer
// cancelled, player-joined broadcast.
func (s *Service) JoinRoom(ctx context.Context, roomID, userID string) (*models.JoinRoomResp, error) {
	if userID == "" {
		return nil, ErrValidation
	}

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if userID == room.HostID {
		return nil, ErrSelfJoin
	}
	if rejection := joinRejection(room); rejection != nil {
		return nil, rejection
	}

	// Fetch the snapshot and mint the token before the guarded write: a
	// catalog or signing failure must leave the seat open so the caller
	// can simply retry.
	problem, err := s.problems.GetProblem(ctx, room.ProblemID)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateRoomToken(roomID, userID, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddOpponent(roomID, userID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Someone else took the seat between our read and write.
			if room, err = s.store.GetRoom(roomID); err == nil {
				if rejection := joinRejection(room); rejection != nil {
					return nil, rejection
				}
			}
			return nil, ErrRoomFull
		}
		return nil, err
	}

	s.lobby.Cancel(roomID)
	s.log.Info("opponent joined", zap.String("roomId", roomID), zap.String("userId", userID))
	s.hub.Broadcast(roomID, models.WSFrame{
		Type: models.EventPlayerJoined,
		Data: models.PlayerJoinedData{UserID: userID},
	})

	return &models.JoinRoomResp{
		Status:  models.StatusStarting,
		Problem: problem.Snapshot(),
		Token:   token,
	}, nil
}

func joinRejection(room *models.Room) error {
	switch room.Status {
	case models.StatusWaiting:
		return nil
	case models.StatusExpired:
		return ErrRoomExpired
	default:
		return ErrRoomFull
	}
}

// SetReady marks a participant ready. When both sides are ready the
// countdown runs once and the match starts. Re-marking ready is a no-op.
func (s *Service) SetReady(ctx context.Context, roomID, userID string) (*models.ReadyResp, error) {
	if userID == "" {
		return nil, ErrValidation
	}

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if room.Status != models.StatusStarting {
		return nil, ErrNotStarting
	}

	updated, err := s.store.SetReady(roomID, userID == room.HostID)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrNotStarting
		}
		return nil, err
	}

	if updated.HostReady && updated.OpponentReady {
		s.startCountdown(roomID)
	}
	return &models.ReadyResp{Status: updated.Status}, nil
}

// startCountdown launches the countdown goroutine at most once per room.
func (s *Service) startCountdown(roomID string) {
	s.countdownMu.Lock()
	_, running := s.countdowns[roomID]
	if !running {
		s.countdowns[roomID] = struct{}{}
	}
	s.countdownMu.Unlock()
	if running {
		return
	}

	go func() {
		defer func() {
			s.countdownMu.Lock()
			delete(s.countdowns, roomID)
			s.countdownMu.Unlock()
		}()

		for tick := countdownTicks; tick >= 1; tick-- {
			s.hub.Broadcast(roomID, models.WSFrame{
				Type: models.EventMatchCountdown,
				Data: models.CountdownData{Tick: tick},
			})
			time.Sleep(s.countdownInterval)
		}

		startedAt := time.Now()
		started, err := s.store.StartMatch(roomID, startedAt)
		if err != nil {
			s.log.Error("start match failed", zap.String("roomId", roomID), zap.Error(err))
			return
		}
		if !started {
			return
		}
		s.log.Info("match started", zap.String("roomId", roomID))
		s.hub.Broadcast(roomID, models.WSFrame{
			Type: models.EventMatchStarted,
			Data: models.MatchStartedData{StartedAt: startedAt.UTC().Format(time.RFC3339)},
		})
	}()
}

// Submit grades one attempt and applies winner resolution. Compile errors,
// wrong answers, runtime errors and timeouts are all results; only
// infrastructure problems come back as errors.
func (s *Service) Submit(ctx context.Context, roomID, userID, code, language string) (*models.SubmitResp, error) {
	if userID == "" || code == "" {
		return nil, ErrValidation
	}
	lang, err := exec.ParseLanguage(language)
	if err != nil {
		return nil, ErrValidation
	}

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if room.Status != models.StatusInProgress {
		return nil, ErrMatchNotInProgress
	}

	problem, err := s.problems.GetProblem(ctx, room.ProblemID)
	if err != nil {
		return nil, err
	}

	// Sample cases run first so the verdict list reads in the order the
	// client saw them; partial credit counts hidden cases only.
	cases := append(append([]models.TestCase{}, problem.SampleTests...), problem.HiddenTests...)

	gradeStart := time.Now()
	verdicts, accepted, err := s.runner.Run(ctx, lang, code, cases)
	if err != nil {
		return nil, err
	}
	metrics.ExecutionDuration.WithLabelValues(language).Observe(time.Since(gradeStart).Seconds())

	hiddenOffset := len(problem.SampleTests)
	passedHidden := 0
	caseVerdicts := make([]models.CaseVerdict, len(verdicts))
	for i, v := range verdicts {
		caseVerdicts[i] = models.CaseVerdict{
			Passed:          v.Passed,
			ExecutionTimeMs: v.ExecutionTimeMs,
			ErrorKind:       v.ErrorKind,
		}
		if i >= hiddenOffset && v.Passed {
			passedHidden++
		}
	}

	result := models.ResultRejected
	if accepted {
		result = models.ResultAccepted
	}

	encoded, err := json.Marshal(caseVerdicts)
	if err != nil {
		return nil, err
	}
	sub := &models.Submission{
		SubmissionID: uuid.New().String(),
		RoomID:       roomID,
		UserID:       userID,
		Code:         code,
		Language:     language,
		Result:       result,
		PassedCount:  passedHidden,
		TotalCount:   len(problem.HiddenTests),
		TestResults:  string(encoded),
		SubmittedAt:  time.Now(),
	}
	if err := s.store.AppendSubmission(sub); err != nil {
		return nil, err
	}
	metrics.Submissions.WithLabelValues(language, result).Inc()
	s.log.Info("submission graded",
		zap.String("roomId", roomID),
		zap.String("userId", userID),
		zap.String("language", language),
		zap.String("result", result),
		zap.Int("passedHidden", passedHidden))

	// Result withheld: subscribers only learn that the opponent submitted.
	s.hub.BroadcastExcept(roomID, userID, models.WSFrame{
		Type: models.EventOpponentSubmitted,
		Data: models.OpponentSubmittedData{UserID: userID},
	})

	resp := &models.SubmitResp{
		Result:      result,
		TestResults: caseVerdicts,
		PassedCount: passedHidden,
		TotalCount:  len(problem.HiddenTests),
	}

	if accepted {
		resp.IsWinner, resp.MatchFinished = s.recordAcceptance(ctx, room, userID)
		return resp, nil
	}

	resp.MatchFinished = s.maybeResolveBothSubmitted(ctx, room)
	return resp, nil
}
