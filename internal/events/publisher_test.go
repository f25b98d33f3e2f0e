package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factgate/factgate/internal/domain/model"
	"github.com/factgate/factgate/internal/testutil"
)

func TestNewPublisher_RequiresClient(t *testing.T) {
	_, err := NewPublisher(PublisherOptions{})
	require.Error(t, err)
}

func TestPublisher_PublishCheckEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	publisher, err := NewPublisher(PublisherOptions{
		Client: client,
		Stream: "test-check-events",
	})
	require.NoError(t, err)

	ctx := context.Background()
	event := model.CheckEvent{CheckID: "check-1", Type: model.CheckEventAssessed}

	require.NoError(t, publisher.PublishCheckEvent(ctx, event))

	messages, err := client.XRange(ctx, "test-check-events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	payload, ok := messages[0].Values["payload"].(string)
	require.True(t, ok)

	var decoded model.CheckEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublisher_PublishMultipleEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	publisher, err := NewPublisher(PublisherOptions{
		Client: client,
		Stream: "test-check-events-multi",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, publisher.PublishCheckEvent(ctx, model.CheckEvent{CheckID: "check-1", Type: model.CheckEventAssessed}))
	require.NoError(t, publisher.PublishCheckEvent(ctx, model.CheckEvent{CheckID: "check-1", Type: model.CheckEventDownvoted}))

	length, err := client.XLen(ctx, "test-check-events-multi").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)
}
