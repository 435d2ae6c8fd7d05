package tasks

import (
	"time"

	"github.com/hibiken/asynq"
)

const TypeReconcile = "booking:reconcile"

// NewReconcileTask builds a reconcile task. Runs are deduplicated within a minute so a
// manual trigger and a scheduled tick don't overlap.
func NewReconcileTask() (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeReconcile, nil)
	opts := []asynq.Option{
		asynq.MaxRetry(1),
		asynq.Timeout(5 * time.Minute),
		asynq.Unique(time.Minute),
	}
	return task, opts
}
