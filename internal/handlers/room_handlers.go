package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
	"github.com/Praveenkumar76/skypad-backend/internal/problems"
	"github.com/Praveenkumar76/skypad-backend/internal/rooms"
	"github.com/Praveenkumar76/skypad-backend/internal/session"
	"github.com/Praveenkumar76/skypad-backend/internal/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type RoomHandlers struct {
	svc *rooms.Service
	hub *session.Hub
	log *zap.Logger
}

func NewRoomHandlers(svc *rooms.Service, hub *session.Hub, log *zap.Logger) *RoomHandlers {
	return &RoomHandlers{svc: svc, hub: hub, log: log}
}

// statusFor maps the service's typed rejections onto HTTP codes. Anything
// unrecognized is an infrastructure failure and reported as retryable.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rooms.ErrValidation), errors.Is(err, rooms.ErrSelfJoin):
		return http.StatusBadRequest
	case errors.Is(err, rooms.ErrRoomNotFound), errors.Is(err, problems.ErrProblemNotFound):
		return http.StatusNotFound
	case errors.Is(err, rooms.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, rooms.ErrRoomFull),
		errors.Is(err, rooms.ErrRoomExpired),
		errors.Is(err, rooms.ErrNotStarting),
		errors.Is(err, rooms.ErrMatchNotInProgress):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

func (h *RoomHandlers) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	info := err.Error()
	if code == http.StatusServiceUnavailable {
		h.log.Error("request failed", zap.Error(err))
		info = "temporarily unavailable, retry"
	}
	utils.WriteJSON(w, code, models.Resp{OK: false, Info: info})
}

func (h *RoomHandlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, models.Resp{OK: false, Info: "invalid json"})
		return
	}
	resp, err := h.svc.CreateRoom(r.Context(), req.ProblemID, req.HostID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.Resp{OK: true, Info: resp})
}

func (h *RoomHandlers) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	var req models.JoinRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, models.Resp{OK: false, Info: "invalid json"})
		return
	}
	resp, err := h.svc.JoinRoom(r.Context(), roomID, req.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: resp})
}

func (h *RoomHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	var req models.ReadyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, models.Resp{OK: false, Info: "invalid json"})
		return
	}
	resp, err := h.svc.SetReady(r.Context(), roomID, req.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: resp})
}

func (h *RoomHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	var req models.SubmitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, models.Resp{OK: false, Info: "invalid json"})
		return
	}
	resp, err := h.svc.Submit(r.Context(), roomID, req.UserID, req.Code, req.Language)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: resp})
}

func (h *RoomHandlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	view, err := h.svc.GetRoomView(roomID, r.URL.Query().Get("userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: view})
}

// WS upgrades the connection and subscribes the caller to its room's event
// stream. The token binds the subscription to one room and one user; a
// token for a different room than the path is rejected.
func (h *RoomHandlers) WS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	tokenRoom, userID, err := utils.ParseRoomToken(r.URL.Query().Get("token"), h.svc.JWTSecret())
	if err != nil || tokenRoom != roomID {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if _, err := h.svc.GetRoomView(roomID, ""); err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := session.NewClient(userID, conn)
	room := h.hub.GetOrCreate(roomID)
	room.Join(client)
	h.log.Info("websocket connected",
		zap.String("roomId", roomID), zap.String("userId", userID))

	// Frames only flow server to client; the read loop just detects the
	// peer going away.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			room.Leave(client)
			conn.Close()
			h.log.Info("websocket disconnected",
				zap.String("roomId", roomID), zap.String("userId", userID))
			break
		}
	}
}

func (h *RoomHandlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
