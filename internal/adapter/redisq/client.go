// Package redisq backs the notification fan-out with Redis: a list-based
// durable queue (LPUSH/BRPOP) for the authoritative copy and pub/sub
// channels for best-effort live push to connected sessions.
package redisq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/config"
)

const staffChannel = "staff"

// Client wraps a Redis connection for queue and live-push use.
type Client struct {
	log           *slog.Logger
	rdb           *goredis.Client
	channelPrefix string
}

// New connects to Redis and pings it for fail-fast validation.
func New(logger *slog.Logger, cfg config.RedisConfig) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{
		log:           logger.With("service", "redisq"),
		rdb:           rdb,
		channelPrefix: cfg.ChannelPrefix,
	}, nil
}

// Send appends payload to the durable queue.
func (c *Client) Send(ctx context.Context, queue string, payload []byte) error {
	return c.rdb.LPush(ctx, queue, payload).Err()
}

// Receive blocks up to timeout for the next queued message. Returns nil
// payload when the timeout elapses without a message.
func (c *Client) Receive(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := c.rdb.BRPop(ctx, timeout, queue).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("brpop %s: %w", queue, err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("brpop %s: unexpected reply length %d", queue, len(res))
	}
	return []byte(res[1]), nil
}

// PushToUser publishes payload on the user's live channel.
func (c *Client) PushToUser(ctx context.Context, userID uuid.UUID, payload []byte) error {
	return c.rdb.Publish(ctx, c.userChannel(userID.String()), payload).Err()
}

// PushToStaff publishes payload on the shared staff channel.
func (c *Client) PushToStaff(ctx context.Context, payload []byte) error {
	return c.rdb.Publish(ctx, c.channelPrefix+":"+staffChannel, payload).Err()
}

func (c *Client) userChannel(userID string) string {
	return c.channelPrefix + ":user:" + userID
}

// StartForwarder subscribes to all live channels under the prefix and
// forwards messages to the callbacks. Payloads on unparseable channels are
// logged and skipped. Runs until ctx is cancelled.
func (c *Client) StartForwarder(ctx context.Context, onUser func(userID uuid.UUID, payload []byte), onStaff func(payload []byte)) error {
	if onUser == nil || onStaff == nil {
		return fmt.Errorf("forwarder callbacks required")
	}

	sub := c.rdb.PSubscribe(ctx, c.channelPrefix+":*")

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis psubscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				c.route(m.Channel, []byte(m.Payload), onUser, onStaff)
			}
		}
	}()

	return nil
}

func (c *Client) route(channel string, payload []byte, onUser func(uuid.UUID, []byte), onStaff func([]byte)) {
	suffix := strings.TrimPrefix(channel, c.channelPrefix+":")

	switch {
	case suffix == staffChannel:
		onStaff(payload)
	case strings.HasPrefix(suffix, "user:"):
		id, err := uuid.Parse(strings.TrimPrefix(suffix, "user:"))
		if err != nil {
			c.log.Warn("bad user channel name", "channel", channel, "error", err)
			return
		}
		onUser(id, payload)
	default:
		c.log.Warn("message on unknown channel", "channel", channel)
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
