package triscan

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// DefaultChunkFactor is the target number of chunks produced per worker when
// a queue strategy splits an item domain. Four chunks per worker keeps queues
// short while still letting fast workers steal slack from slow ones.
const DefaultChunkFactor = 4

type EngineConfig struct {
	// Workers is the number of concurrent workers per batch operation.
	// Zero means DefaultWorkerCount().
	Workers int

	// ChunkFactor is the number of chunks produced per worker when a queue
	// strategy splits an item domain. Zero means DefaultChunkFactor.
	ChunkFactor int

	// Logger receives load diagnostics. The zero value logs nothing.
	Logger zerolog.Logger
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Workers:     DefaultWorkerCount(),
		ChunkFactor: DefaultChunkFactor,
		Logger:      zerolog.Nop(),
	}
}

// Engine dispatches batch operations across a fixed pool of workers under a
// chosen Strategy. An Engine holds configuration only: queues and the merge
// lock are created per call and discarded after the join barrier, so one
// Engine is safe to share between goroutines and across many batch
// operations.
type Engine struct {
	workers     int
	chunkFactor int
	log         zerolog.Logger
}

func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Workers < 0 {
		return nil, fmt.Errorf("%w: Workers must not be negative", ErrInvalidConfig)
	}
	if config.ChunkFactor < 0 {
		return nil, fmt.Errorf("%w: ChunkFactor must not be negative", ErrInvalidConfig)
	}

	workers := config.Workers
	if workers == 0 {
		workers = DefaultWorkerCount()
	}
	chunkFactor := config.ChunkFactor
	if chunkFactor == 0 {
		chunkFactor = DefaultChunkFactor
	}

	return &Engine{
		workers:     workers,
		chunkFactor: chunkFactor,
		log:         config.Logger,
	}, nil
}

// Workers reports the worker count used by this engine's batch operations.
func (e *Engine) Workers() int { return e.workers }

// span is one work item over an index domain: the half-open range
// [start, end).
type span struct {
	start int
	end   int
}

// chunkSpans splits [0, total) into chunks of size
// max(1, total/(workers*chunkFactor)), in domain order.
func (e *Engine) chunkSpans(total int) []span {
	size := total / (e.workers * e.chunkFactor)
	if size < 1 {
		size = 1
	}

	spans := make([]span, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}

// evenSpans splits [0, total) into n contiguous spans whose sizes differ by
// at most one. Spans past the end are empty when total < n.
func evenSpans(total, n int) []span {
	spans := make([]span, n)
	base := total / n
	rem := total % n

	start := 0
	for i := range spans {
		length := base
		if i < rem {
			length++
		}
		spans[i] = span{start: start, end: start + length}
		start += length
	}
	return spans
}

// RunRange executes one batch operation over the index domain [0, total).
// Each worker folds indexes through process into a worker-local accumulator,
// starting from the zero value of R, and merges it into the shared result
// exactly once on exit, under a merge lock created for this call. Lock
// acquisitions are therefore bounded by the worker count, not the item count.
//
// The call blocks until every worker has joined; the returned result is
// complete and needs no further synchronization. A total of zero returns the
// zero value of R without spawning workers. Workers merge in completion
// order, so merge must not depend on ordering. Passing an out-of-range
// Strategy is a programming error and panics.
func RunRange[R any](e *Engine, total int, strategy Strategy, process func(acc R, index int) R, merge func(into, part R) R) R {
	var result R
	if total <= 0 {
		return result
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	// Exactly one merge per worker.
	commit := func(part R) {
		mu.Lock()
		result = merge(result, part)
		mu.Unlock()
	}

	drain := func(q *WorkQueue[span]) {
		defer wg.Done()
		var acc R
		for {
			sp, ok := q.Pop()
			if !ok {
				break
			}
			for i := sp.start; i < sp.end; i++ {
				acc = process(acc, i)
			}
		}
		commit(acc)
	}

	switch strategy {
	case StrategyDataParallel:
		for _, sp := range evenSpans(total, e.workers) {
			if sp.start == sp.end {
				continue
			}
			wg.Add(1)
			go func(sp span) {
				defer wg.Done()
				var acc R
				for i := sp.start; i < sp.end; i++ {
					acc = process(acc, i)
				}
				commit(acc)
			}(sp)
		}
		wg.Wait()

	case StrategyCentralizedQueue:
		// Workers start first so they drain while the leader is still
		// pushing.
		queue := NewWorkQueue[span]()
		wg.Add(e.workers)
		for w := 0; w < e.workers; w++ {
			go drain(queue)
		}

		for _, sp := range e.chunkSpans(total) {
			queue.Push(sp)
		}
		queue.Finish()
		wg.Wait()

	case StrategyRoundRobin:
		queues := make([]*WorkQueue[span], e.workers)
		wg.Add(e.workers)
		for w := range queues {
			queues[w] = NewWorkQueue[span]()
			go drain(queues[w])
		}

		for i, sp := range e.chunkSpans(total) {
			queues[i%len(queues)].Push(sp)
		}
		for _, q := range queues {
			q.Finish()
		}
		wg.Wait()

	default:
		panic(fmt.Sprintf("triscan: unknown strategy %d", uint8(strategy)))
	}

	return result
}

// RunBatch is RunRange over a slice of work items: each worker folds items
// through process into a worker-local accumulator that is merged into the
// shared result once per worker. An empty item slice returns the zero value
// of R.
func RunBatch[T, R any](e *Engine, items []T, strategy Strategy, process func(acc R, item T) R, merge func(into, part R) R) R {
	return RunRange(e, len(items), strategy, func(acc R, i int) R {
		return process(acc, items[i])
	}, merge)
}
