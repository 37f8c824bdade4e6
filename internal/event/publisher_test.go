package event

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/theguesswho/financial-news-platform/internal/model"
)

type fakeQueue struct {
	pushed []string
	err    error
}

func (f *fakeQueue) Push(ctx context.Context, queueKey string, data string) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, data)
	return nil
}

func TestPublishNewsEvent(t *testing.T) {
	q := &fakeQueue{}
	p := &Publisher{queue: q, queueKey: "test"}

	err := p.Publish(context.Background(), model.Envelope{
		EventType: model.EventSignificantNews,
		Ticker:    "ACME",
		Headline:  "Acme Corp beats earnings",
		URL:       "https://x/1",
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(q.pushed))

	var env model.Envelope
	json.Unmarshal([]byte(q.pushed[0]), &env)
	assert.Equal(t, model.EventSignificantNews, env.EventType)
	assert.Equal(t, "ACME", env.Ticker)
	assert.Equal(t, "Acme Corp beats earnings", env.Headline)
	assert.Equal(t, "https://x/1", env.URL)
}

func TestPublishSynthesizesFallbackKey(t *testing.T) {
	q := &fakeQueue{}
	p := &Publisher{queue: q, queueKey: "test"}

	err := p.Publish(context.Background(), model.Envelope{
		EventType: model.EventScheduled,
		Ticker:    "ACME",
	})

	assert.Equal(t, nil, err)

	var env model.Envelope
	json.Unmarshal([]byte(q.pushed[0]), &env)
	if !strings.HasPrefix(env.URL, "event_") {
		t.Errorf("expected synthesized key, got %q", env.URL)
	}
}

func TestPublishRejectsInvalidEnvelope(t *testing.T) {
	q := &fakeQueue{}
	p := &Publisher{queue: q, queueKey: "test"}

	err := p.Publish(context.Background(), model.Envelope{
		EventType: "BOGUS",
		Ticker:    "ACME",
		URL:       "https://x/1",
	})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(q.pushed))
}

func TestPublishRejectsMissingTicker(t *testing.T) {
	q := &fakeQueue{}
	p := &Publisher{queue: q, queueKey: "test"}

	err := p.Publish(context.Background(), model.Envelope{
		EventType: model.EventSignificantNews,
		URL:       "https://x/1",
	})

	assert.NotEqual(t, nil, err)
}

func TestPublishQueueFailure(t *testing.T) {
	p := &Publisher{queue: &fakeQueue{err: errors.New("redis down")}, queueKey: "test"}

	err := p.Publish(context.Background(), model.Envelope{
		EventType: model.EventSignificantNews,
		Ticker:    "ACME",
		URL:       "https://x/1",
	})

	assert.NotEqual(t, nil, err)
}
