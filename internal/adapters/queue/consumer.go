// Package queue consumes batches of check update events from the Redis
// Streams transport and drives them through the delta notifier. Delivery is
// at-least-once; reprocessing is safe because delta computation against an
// already-updated record yields no transitions.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/factgate/factgate/internal/domain/model"
	"github.com/factgate/factgate/internal/poll"
)

const (
	// DefaultStream is the stream carrying check update events.
	DefaultStream = "check-updates"
	// DefaultGroup is the consumer group name for the delta notifier.
	DefaultGroup = "factgate-notifier"

	defaultBatchSize = 16
	defaultBlock     = 5 * time.Second
	readErrorBackoff = time.Second
)

// UpdateProcessor handles one decoded update event. It returns the number of
// notification dispatch failures (isolated, already logged) and an error only
// when the update itself could not be applied.
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, update model.CheckUpdate) (int, error)
}

// Options configures the queue consumer.
type Options struct {
	Client    redis.UniversalClient // Required: stream transport
	Processor UpdateProcessor       // Required: update event handler
	Logger    *slog.Logger          // Optional: structured logger

	Stream    string        // Optional: defaults to DefaultStream
	Group     string        // Optional: defaults to DefaultGroup
	Consumer  string        // Optional: defaults to hostname plus a UUID suffix
	BatchSize int64         // Optional: events per read; defaults to 16
	Block     time.Duration // Optional: read block window; defaults to 5s
	Workers   int           // Optional: concurrent read loops; defaults to 1
}

// Consumer reads update event batches from a Redis Stream consumer group and
// processes each event independently: one failing event never aborts the
// rest of its batch.
type Consumer struct {
	client    redis.UniversalClient
	processor UpdateProcessor
	logger    *slog.Logger

	stream   string
	group    string
	consumer string
	batch    int64
	block    time.Duration
	workers  int
}

// NewConsumer constructs a queue consumer.
func NewConsumer(opts Options) (*Consumer, error) {
	if opts.Client == nil {
		return nil, errors.New("queue: redis client is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("queue: update processor is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stream := opts.Stream
	if stream == "" {
		stream = DefaultStream
	}
	group := opts.Group
	if group == "" {
		group = DefaultGroup
	}
	consumer := opts.Consumer
	if consumer == "" {
		consumer = defaultConsumerName()
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	block := opts.Block
	if block <= 0 {
		block = defaultBlock
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Consumer{
		client:    opts.Client,
		processor: opts.Processor,
		logger:    logger.With("component", "queue_consumer", "stream", stream),
		stream:    stream,
		group:     group,
		consumer:  consumer,
		batch:     batch,
		block:     block,
		workers:   workers,
	}, nil
}

// Run creates the consumer group if needed and processes batches until the
// context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "starting queue consumer",
		"group", c.group, "consumer", c.consumer, "workers", c.workers)

	g, gctx := errgroup.WithContext(ctx)
	for range c.workers {
		g.Go(func() error { return c.readLoop(gctx) })
	}
	return g.Wait()
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("queue: create consumer group: %w", err)
	}
	return nil
}

func (c *Consumer) readLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, ">"},
			Count:    c.batch,
			Block:    c.block,
		}).Result()

		switch {
		case errors.Is(err, redis.Nil):
			continue // block window elapsed with no messages
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "read from stream failed", "error", err)
			if serr := poll.ContextSleep(ctx, readErrorBackoff); serr != nil {
				return serr
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.handleMessage(ctx, msg)
			}
		}
	}
	return ctx.Err()
}

// handleMessage processes one event. Poison messages are acked so they do
// not wedge the group; repository failures leave the message pending so the
// transport can redeliver it later.
func (c *Consumer) handleMessage(ctx context.Context, msg redis.XMessage) {
	update, err := decodeUpdate(msg)
	if err != nil {
		c.logger.ErrorContext(ctx, "dropping undecodable update event",
			"message_id", msg.ID, "error", err)
		c.ack(ctx, msg.ID)
		return
	}

	dispatchErrs, err := c.processor.ProcessUpdate(ctx, update)
	if err != nil {
		c.logger.ErrorContext(ctx, "update event left pending for redelivery",
			"message_id", msg.ID, "check_id", update.CheckID, "error", err)
		return
	}
	if dispatchErrs > 0 {
		c.logger.WarnContext(ctx, "update event processed with dispatch failures",
			"message_id", msg.ID, "check_id", update.CheckID, "dispatch_errors", dispatchErrs)
	}
	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, messageID string) {
	if err := c.client.XAck(ctx, c.stream, c.group, messageID).Err(); err != nil {
		c.logger.ErrorContext(ctx, "ack failed", "message_id", messageID, "error", err)
	}
}

func decodeUpdate(msg redis.XMessage) (model.CheckUpdate, error) {
	raw, ok := msg.Values["payload"]
	if !ok {
		return model.CheckUpdate{}, errors.New("message missing payload field")
	}
	payload, ok := raw.(string)
	if !ok {
		return model.CheckUpdate{}, fmt.Errorf("payload has unexpected type %T", raw)
	}

	var update model.CheckUpdate
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		return model.CheckUpdate{}, fmt.Errorf("decode payload: %w", err)
	}
	if update.CheckID == "" {
		return model.CheckUpdate{}, errors.New("payload missing check id")
	}
	return update, nil
}

func defaultConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "factgate"
	}
	return host + "-" + uuid.NewString()[:8]
}
