package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker runs a Task for the indices it receives
type Worker[T any] struct {
	id      int
	task    Task[T]
	timeout time.Duration
}

// NewWorker creates a new pipeline worker
func NewWorker[T any](id int, task Task[T], timeout time.Duration) *Worker[T] {
	return &Worker[T]{
		id:      id,
		task:    task,
		timeout: timeout,
	}
}

// Process runs the task for one index and never panics.
// Cancellation of ctx turns the remaining indices into failed results.
func (w *Worker[T]) Process(ctx context.Context, index uint64) (result *Result[T]) {
	start := time.Now()
	result = &Result[T]{Index: index, WorkerID: w.id}

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic while processing index %d: %v", index, r)
		}
		result.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	taskCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	result.Value, result.Err = w.task(taskCtx, index)

	slog.Debug("Worker completed index",
		"worker_id", w.id,
		"index", index,
		"failed", result.Err != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}
