package rewards

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestPublishDeliversEvent(t *testing.T) {
	_, rdb := setupTestRedis(t)
	pub := NewPublisher(rdb, zap.NewNop())

	sub := rdb.Subscribe(context.Background(), Channel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	winner := "host"
	pub.Publish(context.Background(), models.MatchFinishedEvent{
		RoomID:        "ABC-123",
		WinnerID:      &winner,
		OutcomeKind:   models.OutcomeAccepted,
		MatchDuration: 87,
		Difficulty:    models.DifficultyEasy,
	})

	select {
	case msg := <-sub.Channel():
		var event models.MatchFinishedEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, "ABC-123", event.RoomID)
		require.NotNil(t, event.WinnerID)
		assert.Equal(t, "host", *event.WinnerID)
		assert.Equal(t, models.OutcomeAccepted, event.OutcomeKind)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublishTieEventHasNullWinner(t *testing.T) {
	_, rdb := setupTestRedis(t)
	pub := NewPublisher(rdb, zap.NewNop())

	sub := rdb.Subscribe(context.Background(), Channel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	pub.Publish(context.Background(), models.MatchFinishedEvent{
		RoomID:      "ABC-123",
		OutcomeKind: models.OutcomeTimeout,
		Difficulty:  models.DifficultyMedium,
	})

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, `"winnerId":null`)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublishSurvivesDownRedis(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	pub := NewPublisher(rdb, zap.NewNop())
	mr.Close()

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), models.MatchFinishedEvent{RoomID: "ABC-123"})
	})
}
