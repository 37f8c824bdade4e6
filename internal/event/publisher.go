// Package event publishes normalized analysis requests onto the message
// queue. Publication happens only after the triggering fact is durably
// stored and only for resolved tickers.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/theguesswho/financial-news-platform/db"
	"github.com/theguesswho/financial-news-platform/internal/model"
)

type queuePusher interface {
	Push(ctx context.Context, queueKey string, data string) error
}

type Publisher struct {
	queue    queuePusher
	queueKey string
}

func NewPublisher(queue *db.Queue) *Publisher {
	return &Publisher{queue: queue, queueKey: db.AnalysisQueueKey}
}

// Publish validates and enqueues one envelope. An envelope without a URL
// (scheduled events have no natural key) gets a synthesized fallback key so
// it still has a stable report identity downstream.
func (p *Publisher) Publish(ctx context.Context, env model.Envelope) error {
	if env.URL == "" {
		env.URL = "event_" + uuid.NewString()
	}

	if err := env.Validate(); err != nil {
		return fmt.Errorf("invalid envelope: %w", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := p.queue.Push(ctx, p.queueKey, string(data)); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	return nil
}
