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

	"github.com/report-microservice/internal/domain"
	redisRepo "github.com/report-microservice/internal/repository/redis"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

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

	// Clean up any existing test streams
	client.Del(ctx, "test:stream:report:submitted")

	return client
}

func testEvent() *domain.ReportSubmittedEvent {
	return &domain.ReportSubmittedEvent{
		ReportID:    uuid.New().String(),
		CitizenID:   uuid.New().String(),
		Zone:        "zone1",
		DamageType:  domain.DamagePothole,
		Severity:    domain.SeverityHigh,
		PhotoURL:    "https://cdn.example.com/photo.jpg",
		SubmittedAt: time.Now().UTC(),
	}
}

// TestStreamRepository_CreateConsumerGroup tests consumer group creation
func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	streamName := "test:stream:report:submitted"
	groupName := "test-group"

	defer client.Del(ctx, streamName)

	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	groups, err := client.XInfoGroups(ctx, streamName).Result()
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, groupName, groups[0].Name)

	// Creating again should not error (BUSYGROUP handled)
	err = repo.CreateConsumerGroup(ctx, streamName, groupName)
	assert.NoError(t, err)
}

// TestStreamRepository_PublishToStream tests message publishing
func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	streamName := "test:stream:report:submitted"
	defer client.Del(ctx, streamName)

	event := testEvent()
	err := repo.PublishToStream(ctx, streamName, event)
	require.NoError(t, err)

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{streamName, "0"},
		Count:   1,
		Block:   -1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.ReportSubmittedEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, event.ReportID, received.ReportID)
	assert.Equal(t, "zone1", received.Zone)
	assert.Equal(t, domain.DamagePothole, received.DamageType)
	assert.Equal(t, domain.SeverityHigh, received.Severity)
}

// TestStreamRepository_ConsumeBatchAndAck tests batch consumption and acknowledgment
func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	streamName := "test:stream:report:submitted"
	groupName := "test-consume-group"
	consumerName := "test-consumer"

	defer client.Del(ctx, streamName)

	require.NoError(t, repo.CreateConsumerGroup(ctx, streamName, groupName))

	// Group reads from "$": publish after group creation
	event := testEvent()
	require.NoError(t, repo.PublishToStream(ctx, streamName, event))

	messages, err := repo.ConsumeBatch(ctx, streamName, groupName, consumerName, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.NotEmpty(t, messages[0].ID)

	dataStr, ok := messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.ReportSubmittedEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, event.ReportID, received.ReportID)

	// Message stays pending until acknowledged
	pending, err := client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	require.NoError(t, repo.AckMessage(ctx, streamName, groupName, messages[0].ID))

	pending, err = client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// TestStreamRepository_ConsumeBatch_EmptyStream tests the non-blocking empty read
func TestStreamRepository_ConsumeBatch_EmptyStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	streamName := "test:stream:report:submitted"
	groupName := "test-empty-group"

	defer client.Del(ctx, streamName)

	require.NoError(t, repo.CreateConsumerGroup(ctx, streamName, groupName))

	// Пустая очередь - пустой результат, без блокировки и без ошибки
	messages, err := repo.ConsumeBatch(ctx, streamName, groupName, "test-consumer", 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
