package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventPayload(t *testing.T) {
	ev, err := NewEvent(EventCoachVerified, "c1", CoachVerifiedPayload{Verified: true})
	require.NoError(t, err)
	assert.Equal(t, "c1", ev.CoachID)
	assert.False(t, ev.Timestamp.IsZero())

	var p CoachVerifiedPayload
	require.NoError(t, ev.UnmarshalPayload(&p))
	assert.True(t, p.Verified)

	bare, err := NewEvent(EventDirectoryInvalidated, "", nil)
	require.NoError(t, err)
	assert.Nil(t, bare.Payload)
}

func TestPumpDecodesAndSkipsMalformed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan *redis.Message, 3)
	out := make(chan *Event, 3)

	msgs <- &redis.Message{Payload: "{broken"}
	msgs <- &redis.Message{Payload: `{"type":"coach.verified","coach_id":"c7","payload":{"verified":false}}`}
	close(msgs)

	go pump(ctx, "test", msgs, out)

	select {
	case ev, ok := <-out:
		require.True(t, ok)
		assert.Equal(t, EventCoachVerified, ev.Type)
		assert.Equal(t, "c7", ev.CoachID)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	_, ok := <-out
	assert.False(t, ok, "channel closes when the source closes")
}

func TestNewPubSubRejectsUnknownDriver(t *testing.T) {
	_, err := NewPubSub(Config{Driver: "kafka"})
	assert.Error(t, err)
}
