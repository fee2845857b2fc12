package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

const defaultEnqueueTimeout = 2 * time.Second

// queueClient is the subset of the Redis client the queue and worker use
type queueClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisQueue pushes notifications as JSON onto a Redis list consumed by Worker.
// Enqueue failures are logged and never reach the caller.
type RedisQueue struct {
	client  queueClient
	key     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRedisQueue creates a dispatcher that pushes onto the Redis list at key
func NewRedisQueue(client *redis.Client, key string, logger *zap.Logger) *RedisQueue {
	return newRedisQueue(client, key, logger)
}

func newRedisQueue(client queueClient, key string, logger *zap.Logger) *RedisQueue {
	return &RedisQueue{
		client:  client,
		key:     key,
		timeout: defaultEnqueueTimeout,
		logger:  logger,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, n model.Notification) {
	if err := push(ctx, q.client, q.key, n, q.timeout); err != nil {
		q.logger.Error("Failed to enqueue notification",
			zap.String("notification_id", n.ID),
			zap.String("kind", string(n.Kind)),
			zap.String("queue", q.key),
			zap.Error(err))
		return
	}

	q.logger.Debug("Notification queued",
		zap.String("notification_id", n.ID),
		zap.String("queue", q.key))
}

func push(ctx context.Context, client queueClient, key string, n model.Notification, timeout time.Duration) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.LPush(ctx, key, payload).Err()
}

// NewRedisClient connects to Redis and checks the connection with a ping
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultEnqueueTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
