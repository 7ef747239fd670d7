package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parkrun-map/internal/domain"
	redisRepo "github.com/parkrun-map/internal/repository/redis"
)

const (
	testViewportStream = "test:stream:map:viewport"
	testOverlayStream  = "test:stream:map:overlay"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testViewportStream, testOverlayStream)

	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()
	groupName := "test-group"

	defer client.Del(ctx, testViewportStream)

	err := repo.CreateConsumerGroup(ctx, testViewportStream, groupName)
	require.NoError(t, err)

	groups, err := client.XInfoGroups(ctx, testViewportStream).Result()
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, groupName, groups[0].Name)

	// Creating again should not error (BUSYGROUP handled)
	err = repo.CreateConsumerGroup(ctx, testViewportStream, groupName)
	assert.NoError(t, err)
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	defer client.Del(ctx, testOverlayStream)

	sessionID := uuid.New()
	event := &domain.OverlayDeltaEvent{
		SessionID: sessionID,
		Delta: &domain.OverlayDelta{
			Removed:      []string{"dietenbach#0"},
			VisibleSites: []string{},
		},
	}

	err := repo.PublishToStream(ctx, testOverlayStream, event)
	require.NoError(t, err)

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testOverlayStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.OverlayDeltaEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, sessionID, received.SessionID)
	assert.Equal(t, []string{"dietenbach#0"}, received.Delta.Removed)
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, 200*time.Millisecond, zap.NewNop())
	ctx := context.Background()
	groupName := "test-consume-group"
	consumerName := "test-consumer"

	defer client.Del(ctx, testViewportStream)

	require.NoError(t, repo.CreateConsumerGroup(ctx, testViewportStream, groupName))

	// Empty stream returns no messages after the read timeout
	messages, err := repo.ConsumeBatch(ctx, testViewportStream, groupName, consumerName, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)

	sessionID := uuid.New()
	for _, zoom := range []float64{9, 12, 14} {
		require.NoError(t, repo.PublishToStream(ctx, testViewportStream, &domain.ViewportEvent{
			SessionID: sessionID,
			Zoom:      zoom,
			Bounds:    domain.Bounds{MinLat: 47, MinLon: 7, MaxLat: 48, MaxLon: 8},
		}))
	}

	messages, err = repo.ConsumeBatch(ctx, testViewportStream, groupName, consumerName, 10)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	zooms := make([]float64, 0, len(messages))
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		var event domain.ViewportEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &event))
		assert.Equal(t, sessionID, event.SessionID)
		zooms = append(zooms, event.Zoom)
		ids = append(ids, msg.ID)
	}
	assert.Equal(t, []float64{9, 12, 14}, zooms, "arrival order is preserved")

	pending, err := client.XPending(ctx, testViewportStream, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending.Count)

	require.NoError(t, repo.AckMessage(ctx, testViewportStream, groupName, ids[0]))
	require.NoError(t, repo.AckMessages(ctx, testViewportStream, groupName, ids[1:]))
	require.NoError(t, repo.AckMessages(ctx, testViewportStream, groupName, nil))

	pending, err = client.XPending(ctx, testViewportStream, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}
