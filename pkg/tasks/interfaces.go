package tasks

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the part of *asynq.Client used to trigger runs outside
// the schedule. Tests substitute a recorder.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
