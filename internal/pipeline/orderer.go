package pipeline

import (
	"log/slog"

	"minter/internal/metrics"
)

// Orderer receives results from workers in completion order and releases them
// in index order. Out-of-order results are buffered until the gap before them closes.
type Orderer[T any] struct {
	nextExpected uint64
	pending      map[uint64]*Result[T]
	out          []Result[T]
}

// NewOrderer creates an orderer expecting indices from start onwards
func NewOrderer[T any](start uint64, capacity int) *Orderer[T] {
	return &Orderer[T]{
		nextExpected: start,
		pending:      make(map[uint64]*Result[T]),
		out:          make([]Result[T], 0, capacity),
	}
}

// ProcessResult buffers a result and flushes every result that is now in sequence
func (o *Orderer[T]) ProcessResult(result *Result[T]) {
	if result.Index < o.nextExpected {
		slog.Warn("Orderer: dropping duplicate result", "index", result.Index)
		return
	}
	if _, exists := o.pending[result.Index]; exists {
		slog.Warn("Orderer: dropping duplicate result", "index", result.Index)
		return
	}

	o.pending[result.Index] = result

	for {
		data, exists := o.pending[o.nextExpected]
		if !exists {
			break
		}

		o.out = append(o.out, *data)
		delete(o.pending, o.nextExpected)
		o.nextExpected++
	}

	metrics.PipelineQueueDepth.Set(float64(len(o.pending)))
}

// Results returns the results released so far, ascending by index
func (o *Orderer[T]) Results() []Result[T] {
	return o.out
}

// GetPendingCount returns the number of results waiting for an earlier index
func (o *Orderer[T]) GetPendingCount() int {
	return len(o.pending)
}

// GetNextExpected returns the next index the orderer is waiting for
func (o *Orderer[T]) GetNextExpected() uint64 {
	return o.nextExpected
}
