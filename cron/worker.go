package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carvistors/config"
	"carvistors/services/notification"
	"carvistors/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the asynq connection options for the notification queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux registers the notification task handlers.
func NewMux(sender notification.Sender, broadcaster notification.Broadcaster, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotifyRecipient, handleRecipientTask(sender, logger))
	mux.HandleFunc(tasks.TypeNotifyAdmins, handleAdminsTask(broadcaster, logger))
	return mux
}

// InitNotificationWorker runs the async worker in background and returns the
// server so the caller can shut it down.
// The Redis monitor stops when ctx is done.
func InitNotificationWorker(ctx context.Context, sender notification.Sender, broadcaster notification.Broadcaster, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueNotifications: 1,
			},
		},
	)
	mux := NewMux(sender, broadcaster, logger)

	go monitorRedisConnection(ctx, logger, 10*time.Second)

	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				break
			}
			logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("notification worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleRecipientTask(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.RecipientPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid recipient payload: %v: %w", err, asynq.SkipRetry)
		}

		ref := p.Ref()
		_, err := sender.SendToOne(ctx, ref, p.Content)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, notification.ErrRecipientNotFound), errors.Is(err, notification.ErrInvalidInput):
			logger.Info("notification task dropped", zap.Stringer("recipient", ref), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		default:
			logger.Error("notification task failed", zap.Stringer("recipient", ref), zap.Error(err))
			return err
		}
	}
}

// handleAdminsTask retries only when the admin list could not be read. Once
// delivery has started per-admin failures are logged and the task succeeds.
func handleAdminsTask(broadcaster notification.Broadcaster, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.AdminsPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid admins payload: %v: %w", err, asynq.SkipRetry)
		}

		results, err := broadcaster.SendToAllAdmins(ctx, p.Content)
		if err != nil {
			logger.Error("admin broadcast task failed", zap.String("title", p.Content.Title), zap.Error(err))
			if errors.Is(err, notification.ErrInvalidInput) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		for _, r := range notification.Failed(results) {
			logger.Error("admin notification failed", zap.String("adminId", r.AdminID), zap.Error(r.Err))
		}
		return nil
	}
}

// monitorRedisConnection pings Redis every interval until ctx is done.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger, interval time.Duration) {
	opt := RedisOpt()
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
			logger.Warn("queue redis connection lost", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
