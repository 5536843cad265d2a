package pipeline

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"minter/internal/metrics"
)

// Pipeline fans a contiguous range of indices out to a pool of workers and
// joins the results back in index order
type Pipeline[T any] struct {
	config Config
	task   Task[T]
}

// New creates a new pipeline instance
func New[T any](config Config, task Task[T]) *Pipeline[T] {
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaultWorkerCount
	}
	return &Pipeline[T]{
		config: config,
		task:   task,
	}
}

// Run processes indices [offset, offset+count) and returns exactly count results
// sorted ascending by index. Failures stay in their own Result.
// count is clamped so the range never runs past math.MaxUint64.
func (p *Pipeline[T]) Run(ctx context.Context, offset, count uint64) []Result[T] {
	count = min(count, math.MaxUint64-offset)
	if count == 0 {
		return []Result[T]{}
	}

	workerCount := p.config.WorkerCount
	if uint64(workerCount) > count {
		workerCount = int(count)
	}

	slog.Debug("Starting pipeline run",
		"offset", offset,
		"count", count,
		"worker_count", workerCount,
	)

	indexChan := make(chan uint64, workerCount)
	resultsChan := make(chan *Result[T], workerCount)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		w := NewWorker(i, p.task, p.config.TaskTimeout)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range indexChan {
				resultsChan <- w.Process(ctx, index)
			}
		}()
	}

	metrics.PipelineWorkerCount.Add(float64(workerCount))
	defer metrics.PipelineWorkerCount.Sub(float64(workerCount))

	// Workers drain every index even after cancellation, so the feeder never blocks forever
	go func() {
		for i := uint64(0); i < count; i++ {
			indexChan <- offset + i
		}
		close(indexChan)
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	orderer := NewOrderer[T](offset, int(min(count, maxPrealloc)))
	for result := range resultsChan {
		orderer.ProcessResult(result)
	}

	if pending := orderer.GetPendingCount(); pending > 0 {
		slog.Error("Pipeline finished with unreleased results",
			"pending", pending,
			"next_expected", orderer.GetNextExpected(),
		)
	}

	return orderer.Results()
}
