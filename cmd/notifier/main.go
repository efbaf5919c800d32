// Command notifier drains the durable notification queue into the
// notifications read model. It is the authoritative consumer: the API's live
// push is best-effort, this process guarantees every committed transition
// ends up listable.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tutorhive/tutorhive-backend/internal/adapter/postgres"
	notificationrepo "github.com/tutorhive/tutorhive-backend/internal/adapter/postgres/notification"
	"github.com/tutorhive/tutorhive-backend/internal/adapter/redisq"
	"github.com/tutorhive/tutorhive-backend/internal/app"
	"github.com/tutorhive/tutorhive-backend/internal/config"
	"github.com/tutorhive/tutorhive-backend/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log).With("service", "notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("notifier failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run owns everything that needs deferred cleanup, so an error exit still
// closes the pool and the queue connection.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	queue, err := redisq.New(logger, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer queue.Close() //nolint:errcheck

	consumer := notify.NewConsumer(logger, queue, notificationrepo.New(pool),
		cfg.Redis.QueueName, cfg.Content.ConsumePollTimeout,
		cfg.Content.NotifyRetryDelay, cfg.Content.ConsumeMaxFailures)

	logger.Info("notifier started", slog.String("queue", cfg.Redis.QueueName))

	if err := consumer.Run(ctx); err != nil {
		return err
	}

	logger.Info("notifier stopped")
	return nil
}
