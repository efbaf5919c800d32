package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

type queueReceiver interface {
	Send(ctx context.Context, queue string, payload []byte) error
	Receive(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
}

type eventStore interface {
	Create(ctx context.Context, event domain.NotificationEvent) error
}

// Consumer drains the durable notification queue into the read model. The
// queue copy is the authoritative record of a transition; this loop makes it
// listable for recipients who were offline when the live push happened.
type Consumer struct {
	log         *slog.Logger
	queue       queueReceiver
	store       eventStore
	queueName   string
	pollTimeout time.Duration
	retryDelay  time.Duration
	maxFailures int
}

// NewConsumer creates a Consumer. maxFailures below 1 is treated as 1.
func NewConsumer(logger *slog.Logger, queue queueReceiver, store eventStore, queueName string, pollTimeout, retryDelay time.Duration, maxFailures int) *Consumer {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &Consumer{
		log:         logger,
		queue:       queue,
		store:       store,
		queueName:   queueName,
		pollTimeout: pollTimeout,
		retryDelay:  retryDelay,
		maxFailures: maxFailures,
	}
}

// Run drains the queue until ctx is cancelled, returning nil on shutdown.
// Transient receive failures are retried with doubling backoff; an error is
// returned only after maxFailures consecutive misses, so a single network
// blip never kills the consumer.
func (c *Consumer) Run(ctx context.Context) error {
	failures := 0
	delay := c.retryDelay

	for {
		payload, err := c.queue.Receive(ctx, c.queueName, c.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			if failures >= c.maxFailures {
				return fmt.Errorf("receive from queue: %w", err)
			}
			c.log.WarnContext(ctx, "receive from queue failed, retrying",
				slog.Int("consecutive_failures", failures),
				slog.String("error", err.Error()),
			)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			delay *= 2
			continue
		}
		failures = 0
		delay = c.retryDelay

		if payload == nil {
			// Poll timeout. Check for shutdown and keep draining.
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		c.persist(ctx, payload)
	}
}

func (c *Consumer) persist(ctx context.Context, payload []byte) {
	var event domain.NotificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.log.ErrorContext(ctx, "skip malformed queue message",
			slog.String("error", err.Error()))
		return
	}

	if err := c.store.Create(ctx, event); err != nil {
		// The message is already popped; losing it here would drop the
		// notification, so push it back and retry on a later poll.
		c.log.ErrorContext(ctx, "persist notification",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
		if pushErr := c.queue.Send(ctx, c.queueName, payload); pushErr != nil {
			c.log.ErrorContext(ctx, "requeue notification",
				slog.String("event_id", event.ID.String()),
				slog.String("error", pushErr.Error()),
			)
		}
		return
	}

	c.log.DebugContext(ctx, "notification persisted",
		slog.String("event_id", event.ID.String()),
		slog.String("kind", event.Kind.String()),
	)
}
