package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tutorhive/tutorhive-backend/internal/adapter/postgres"
	contentrepo "github.com/tutorhive/tutorhive-backend/internal/adapter/postgres/content"
	notificationrepo "github.com/tutorhive/tutorhive-backend/internal/adapter/postgres/notification"
	"github.com/tutorhive/tutorhive-backend/internal/adapter/postgres/syllabusexercise"
	"github.com/tutorhive/tutorhive-backend/internal/adapter/redisq"
	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/config"
	"github.com/tutorhive/tutorhive-backend/internal/ledger"
	"github.com/tutorhive/tutorhive-backend/internal/notify"
	"github.com/tutorhive/tutorhive-backend/internal/query"
	"github.com/tutorhive/tutorhive-backend/internal/service/content"
	"github.com/tutorhive/tutorhive-backend/internal/transport/middleware"
	"github.com/tutorhive/tutorhive-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// storage, queue, and service layers, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

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

	hub := notify.NewHub()
	if err := queue.StartForwarder(ctx, hub.PushToUser, hub.PushToStaff); err != nil {
		return fmt.Errorf("start live forwarder: %w", err)
	}

	dispatcher := notify.NewDispatcher(logger, queue, queue,
		cfg.Redis.QueueName, cfg.Content.NotifyMaxAttempts, cfg.Content.NotifyRetryDelay)

	items := contentrepo.New(pool)
	groups := syllabusexercise.New(pool)
	notifications := notificationrepo.New(pool)

	svc := content.NewService(
		logger,
		items,
		groups,
		ledger.New(items),
		query.NewPlanner(cfg.Content.DefaultPageSize, cfg.Content.MaxPageSize),
		dispatcher,
		postgres.NewTxManager(pool),
	)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	router := rest.NewRouter(rest.Handlers{
		Content:       rest.NewContentHandler(svc, logger),
		Notifications: rest.NewNotificationHandler(notifications, logger),
		Events:        rest.NewEventsHandler(hub, logger),
		Health:        rest.NewHealthHandler(pool, BuildVersion()),
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(jwtManager),
	)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}

	// Let in-flight notifications reach the queue before connections close.
	dispatcher.Wait()

	return nil
}
