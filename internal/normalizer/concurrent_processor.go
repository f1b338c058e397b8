package normalizer

import (
	"context"
	"runtime"
	"sync"

	"fjacquet/statement-import/internal/logging"
)

// DefaultConcurrencyThreshold is the input size below which rows are
// processed sequentially.
const DefaultConcurrencyThreshold = 100

// ConcurrentProcessor fans independent items out to a worker pool when the
// input is large enough to benefit from it.
type ConcurrentProcessor struct {
	logger      logging.Logger
	workerCount int
	threshold   int
}

// NewConcurrentProcessor creates a processor with one worker per CPU. A
// threshold <= 0 selects DefaultConcurrencyThreshold.
func NewConcurrentProcessor(logger logging.Logger, threshold int) *ConcurrentProcessor {
	if threshold <= 0 {
		threshold = DefaultConcurrencyThreshold
	}
	return &ConcurrentProcessor{
		logger:      logging.OrDefault(logger),
		workerCount: runtime.NumCPU(),
		threshold:   threshold,
	}
}

type indexed[T any] struct {
	index int
	value T
}

// ProcessOrdered applies fn to every item and returns the results in input
// order. It stops early and returns ctx.Err() when ctx is cancelled.
func ProcessOrdered[In, Out any](ctx context.Context, cp *ConcurrentProcessor, items []In, fn func(In) Out) ([]Out, error) {
	if len(items) < cp.threshold || cp.workerCount < 2 {
		return processSequential(ctx, items, fn)
	}
	return processConcurrent(ctx, cp, items, fn)
}

func processSequential[In, Out any](ctx context.Context, items []In, fn func(In) Out) ([]Out, error) {
	out := make([]Out, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, fn(item))
	}
	return out, nil
}

func processConcurrent[In, Out any](ctx context.Context, cp *ConcurrentProcessor, items []In, fn func(In) Out) ([]Out, error) {
	work := make(chan indexed[In], cp.workerCount)
	results := make(chan indexed[Out], len(items))

	var wg sync.WaitGroup
	for i := 0; i < cp.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				results <- indexed[Out]{index: item.index, value: fn(item.value)}
			}
		}()
	}

	go func() {
		defer close(work)
		for i, item := range items {
			select {
			case work <- indexed[In]{index: i, value: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Out, len(items))
	received := 0
	for r := range results {
		out[r.index] = r.value
		received++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cp.logger.Debug("Concurrent processing completed",
		logging.F(logging.FieldCount, received),
		logging.F(logging.FieldWorkers, cp.workerCount))
	return out, nil
}
