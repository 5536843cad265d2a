package pipeline

import (
	"context"
	"time"
)

// Task reads the item at one index. It is called concurrently from several workers.
type Task[T any] func(ctx context.Context, index uint64) (T, error)

// Result is the outcome of a Task for a single index.
// A failed index still produces a Result, with Err set.
type Result[T any] struct {
	Index uint64
	Value T
	Err   error

	// Processing metrics
	WorkerID int
	Duration time.Duration
}

// Config contains configuration for the pipeline
type Config struct {
	// WorkerCount bounds the number of indices processed at once
	WorkerCount int

	// TaskTimeout bounds a single Task call; zero means no per-task timeout
	TaskTimeout time.Duration
}

const defaultWorkerCount = 8

// maxPrealloc caps the result slice capacity reserved up front
const maxPrealloc = 1024
