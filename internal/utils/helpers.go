package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

// --- Helper Functions ---
func WriteJSON(w http.ResponseWriter, code int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// --- JWT Helpers ---

// GenerateRoomToken mints a token authorizing one user to subscribe to one
// room's event stream.
func GenerateRoomToken(roomID, userID string, jwtSecret []byte) (string, error) {
	claims := jwt.MapClaims{
		"roomId": roomID,
		"userId": userID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

var ErrInvalidToken = errors.New("invalid room token")

// ParseRoomToken validates a room token and returns its room and user ids.
func ParseRoomToken(tokenStr string, jwtSecret []byte) (roomID, userID string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	roomID, _ = claims["roomId"].(string)
	userID, _ = claims["userId"].(string)
	if roomID == "" || userID == "" {
		return "", "", ErrInvalidToken
	}
	return roomID, userID, nil
}

// MatchTimeLimit is the difficulty-derived ceiling on match duration.
func MatchTimeLimit(difficulty string) time.Duration {
	switch difficulty {
	case models.DifficultyEasy:
		return 10 * time.Minute
	case models.DifficultyHard:
		return 30 * time.Minute
	default:
		return 20 * time.Minute
	}
}
