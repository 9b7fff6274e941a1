package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-enrollment-api/pkg/jobs"
)

// SubmittedEvent announces a successful enrollment submission so other
// dashboard services can refresh.
type SubmittedEvent struct {
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher fans out enrollment lifecycle events.
type Publisher interface {
	PublishSubmitted(ctx context.Context, event SubmittedEvent) error
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher constructs a Redis-backed publisher.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = "enrollment.submitted"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// PublishSubmitted serialises the event and publishes it.
func (p *RedisPublisher) PublishSubmitted(ctx context.Context, event SubmittedEvent) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal submitted event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	p.logger.Debug("event published", zap.String("channel", p.channel), zap.String("user_id", event.UserID))
	return nil
}

// AsyncPublisher decouples publishing from the request path by handing events
// to a background queue.
type AsyncPublisher struct {
	queue *jobs.Queue[SubmittedEvent]
}

// NewAsyncPublisher builds a queue around the delegate publisher. Start must
// be called before events are accepted.
func NewAsyncPublisher(delegate Publisher, cfg jobs.Config) *AsyncPublisher {
	queue := jobs.New[SubmittedEvent]("enrollment-events", func(ctx context.Context, ev SubmittedEvent) error {
		return delegate.PublishSubmitted(ctx, ev)
	}, cfg)
	return &AsyncPublisher{queue: queue}
}

// Start launches the queue workers.
func (p *AsyncPublisher) Start(ctx context.Context) {
	p.queue.Start(ctx)
}

// Stop drains the queue workers.
func (p *AsyncPublisher) Stop() {
	p.queue.Stop()
}

// PublishSubmitted enqueues the event for background delivery.
func (p *AsyncPublisher) PublishSubmitted(_ context.Context, event SubmittedEvent) error {
	return p.queue.Enqueue(event)
}
