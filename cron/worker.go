package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"jobbot/models"
	"jobbot/services/tasks"
)

// CRMSyncer runs the CRM side workflow for a confirmed booking.
type CRMSyncer interface {
	Sync(ctx context.Context, p models.CRMSyncPayload) (*models.CRMWorkflowResult, error)
}

// ReminderSender delivers a due reminder.
type ReminderSender interface {
	SendReminder(ctx context.Context, p models.ReminderPayload) error
}

// LogReminderSender only records reminders; it is the default sender.
type LogReminderSender struct {
	Logger *zap.Logger
}

func (s LogReminderSender) SendReminder(_ context.Context, p models.ReminderPayload) error {
	s.Logger.Info("Reminder due",
		zap.String("bookingId", p.BookingID),
		zap.String("lead", p.Lead),
		zap.String("contact", p.ContactName),
		zap.String("email", p.Email),
		zap.String("title", p.Title))
	return nil
}

// NewMux wires the task handlers.
func NewMux(crm CRMSyncer, sender ReminderSender, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(sender, logger))
	mux.HandleFunc(tasks.TypeCRMSync, handleCRMSyncTask(crm, logger))
	return mux
}

// StartWorker runs the asynq server in the background, retrying start-up
// with a growing pause. The returned server must be shut down by the caller.
func StartWorker(redisOpt asynq.RedisClientOpt, mux *asynq.ServeMux, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	go func() {
		logger.Info("Starting async worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Worker disabled after max retry attempts")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleReminderTask(sender ReminderSender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return sender.SendReminder(ctx, p)
	}
}

func handleCRMSyncTask(crm CRMSyncer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.CRMSyncPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid CRM payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if _, err := crm.Sync(ctx, p); err != nil {
			// best effort: logged, retried by asynq up to MaxRetry
			logger.Warn("CRM sync failed", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}
