package db

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	AnalysisQueueKey = "newsintel:queue:analysis"
	DeadLetterKey    = "newsintel:queue:failed"
)

// ErrQueueEmpty is returned by Pop when the blocking wait times out with no
// message available.
var ErrQueueEmpty = errors.New("queue empty")

// Queue is a Redis-list message queue. Delivery is at-least-once: a consumer
// that dies after Pop loses the message, and producers may push the same
// event twice, so consumers must be idempotent.
type Queue struct {
	client *redis.Client
}

func NewQueue(redisURL string) (*Queue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Queue{client: client}, nil
}

func (q *Queue) Push(ctx context.Context, queueKey string, data string) error {
	return q.client.LPush(ctx, queueKey, data).Err()
}

func (q *Queue) Pop(ctx context.Context, queueKey string, timeout time.Duration) (string, error) {
	result, err := q.client.BRPop(ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrQueueEmpty
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func (q *Queue) Len(ctx context.Context, queueKey string) (int64, error) {
	return q.client.LLen(ctx, queueKey).Result()
}

func (q *Queue) Close() error {
	return q.client.Close()
}
