// Package events publishes check domain events to the downstream event
// stream consumed by analytics and audit services.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/factgate/factgate/internal/core"
	"github.com/factgate/factgate/internal/domain/model"
)

// DefaultStream is the stream carrying check domain events.
const DefaultStream = "check-events"

const defaultMaxLen = 100_000

// PublisherOptions configures the event publisher.
type PublisherOptions struct {
	Client redis.UniversalClient // Required: stream transport
	Logger *slog.Logger          // Optional: structured logger
	Stream string                // Optional: defaults to DefaultStream
	// MaxLen caps the stream length (approximate trim). Defaults to 100k.
	MaxLen int64
}

// Publisher implements core.EventPublisher over a Redis Stream.
type Publisher struct {
	client redis.UniversalClient
	logger *slog.Logger
	stream string
	maxLen int64
}

// NewPublisher constructs an event publisher.
func NewPublisher(opts PublisherOptions) (*Publisher, error) {
	if opts.Client == nil {
		return nil, errors.New("events: redis client is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stream := opts.Stream
	if stream == "" {
		stream = DefaultStream
	}
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultMaxLen
	}

	return &Publisher{
		client: opts.Client,
		logger: logger.With("component", "event_publisher", "stream", stream),
		stream: stream,
		maxLen: maxLen,
	}, nil
}

// PublishCheckEvent appends one domain event to the stream.
func (p *Publisher) PublishCheckEvent(ctx context.Context, event model.CheckEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("events: publish %s event for check %s: %w", event.Type, event.CheckID, err)
	}

	p.logger.DebugContext(ctx, "published check event",
		"check_id", event.CheckID, "event_type", event.Type)
	return nil
}

var _ core.EventPublisher = (*Publisher)(nil)
