package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"healthcart/config"
	"healthcart/services/reconcile"
	"healthcart/services/tasks"
	"healthcart/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Runner is one reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (reconcile.Report, error)
}

// RedisOpt builds the asynq connection for the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// RunReconcileWorker processes reconcile tasks and enqueues one on the configured cron
// schedule until ctx is done.
func RunReconcileWorker(ctx context.Context, runner Runner) error {
	logger := utils.GetLogger()
	redisOpt := RedisOpt()

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReconcile, handleReconcileTask(runner))

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: utils.Location(),
		Logger:   logger.Sugar(),
	})
	task, opts := tasks.NewReconcileTask()
	entryID, err := scheduler.Register(config.AppConfig.ReconcileCron, task, opts...)
	if err != nil {
		return fmt.Errorf("registering reconcile schedule %q: %w", config.AppConfig.ReconcileCron, err)
	}
	logger.Info("reconcile job scheduled",
		zap.String("entryID", entryID), zap.String("cron", config.AppConfig.ReconcileCron))

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("starting reconcile worker: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return fmt.Errorf("starting reconcile scheduler: %w", err)
	}

	<-ctx.Done()
	logger.Info("stopping reconcile worker")
	scheduler.Shutdown()
	srv.Shutdown()
	return nil
}

// EnqueueReconcile asks a running worker for an immediate pass.
func EnqueueReconcile(ctx context.Context) (string, error) {
	client := asynq.NewClient(RedisOpt())
	defer client.Close()

	task, opts := tasks.NewReconcileTask()
	info, err := client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("enqueue reconcile: %w", err)
	}
	return info.ID, nil
}

func handleReconcileTask(runner Runner) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		report, err := runner.Run(ctx)
		if err != nil {
			utils.GetLogger().Error("reconcile task failed", zap.Error(err))
			return err
		}
		if payload, err := json.Marshal(report); err == nil {
			_, _ = task.ResultWriter().Write(payload)
		}
		return nil
	}
}
