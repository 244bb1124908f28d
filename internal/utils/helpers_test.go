package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

func TestRoomTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateRoomToken("ABC-123", "user1", secret)
	require.NoError(t, err)

	roomID, userID, err := ParseRoomToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", roomID)
	assert.Equal(t, "user1", userID)
}

func TestRoomTokenWrongSecret(t *testing.T) {
	token, err := GenerateRoomToken("ABC-123", "user1", []byte("secret-a"))
	require.NoError(t, err)

	_, _, err = ParseRoomToken(token, []byte("secret-b"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoomTokenGarbage(t *testing.T) {
	_, _, err := ParseRoomToken("not-a-token", []byte("secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMatchTimeLimit(t *testing.T) {
	assert.Equal(t, 10*time.Minute, MatchTimeLimit(models.DifficultyEasy))
	assert.Equal(t, 20*time.Minute, MatchTimeLimit(models.DifficultyMedium))
	assert.Equal(t, 30*time.Minute, MatchTimeLimit(models.DifficultyHard))
	assert.Equal(t, 20*time.Minute, MatchTimeLimit("unknown"))
}
