// Package notify fans out committed state transitions. The durable queue
// message is the source of truth for downstream consumers; the live push is
// best-effort, at-most-once, and never blocks the triggering request.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

type queueSender interface {
	Send(ctx context.Context, queue string, payload []byte) error
}

type livePusher interface {
	PushToUser(ctx context.Context, userID uuid.UUID, payload []byte) error
	PushToStaff(ctx context.Context, payload []byte) error
}

// Dispatcher delivers one NotificationEvent per accepted transition. Enqueue
// failures are retried with bounded attempts and then logged and swallowed:
// the transition is the authoritative fact and is never rolled back for a
// notification.
type Dispatcher struct {
	log         *slog.Logger
	queue       queueSender
	live        livePusher
	queueName   string
	maxAttempts int
	retryDelay  time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. maxAttempts below 1 is treated as 1.
func NewDispatcher(logger *slog.Logger, queue queueSender, live livePusher, queueName string, maxAttempts int, retryDelay time.Duration) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{
		log:         logger.With("service", "notify"),
		queue:       queue,
		live:        live,
		queueName:   queueName,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Dispatch delivers the event asynchronously. It detaches from the request
// context so cancellation of the caller never loses a committed transition's
// notification.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.NotificationEvent) {
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(detached, event)
	}()
}

// Wait blocks until in-flight deliveries finish. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, event domain.NotificationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.log.ErrorContext(ctx, "marshal notification event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	d.enqueue(ctx, event, payload)
	d.push(ctx, event, payload)
}

// enqueue writes the durable copy with bounded retries.
func (d *Dispatcher) enqueue(ctx context.Context, event domain.NotificationEvent, payload []byte) {
	delay := d.retryDelay
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		err := d.queue.Send(ctx, d.queueName, payload)
		if err == nil {
			return
		}

		if attempt == d.maxAttempts {
			d.log.ErrorContext(ctx, "notification enqueue failed, giving up",
				slog.String("event_id", event.ID.String()),
				slog.String("kind", event.Kind.String()),
				slog.Int("attempts", attempt),
				slog.String("error", err.Error()),
			)
			return
		}

		d.log.WarnContext(ctx, "notification enqueue failed, retrying",
			slog.String("event_id", event.ID.String()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		time.Sleep(delay)
		delay *= 2
	}
}

// push targets currently-connected sessions only: one attempt, no retry.
// A missed live push is not data loss; the queue copy remains authoritative.
func (d *Dispatcher) push(ctx context.Context, event domain.NotificationEvent, payload []byte) {
	var err error
	if event.RecipientID != nil {
		err = d.live.PushToUser(ctx, *event.RecipientID, payload)
	} else {
		err = d.live.PushToStaff(ctx, payload)
	}

	if err != nil {
		d.log.WarnContext(ctx, "live push failed",
			slog.String("event_id", event.ID.String()),
			slog.String("kind", event.Kind.String()),
			slog.String("error", err.Error()),
		)
	}
}
