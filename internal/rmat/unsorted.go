package rmat

import (
	"context"
	"sync"

	"github.com/parmatgo/parmat/pkg/collections"
	"github.com/parmatgo/parmat/pkg/parallel"
)

// edgeBatchPool recycles the []Edge backing arrays that flow from Placer
// through Dedup to Writer.WriteBatch, so a long unsorted run doesn't churn
// one fresh allocation per Square.
var edgeBatchPool = collections.NewSlicePool[Edge](1024)

// fillBatch runs the Placer and, if duplicates are disallowed, Dedup over
// one Square, producing its complete edge batch. The returned slice was
// drawn from edgeBatchPool; callers must return it via releaseBatch once
// written.
func fillBatch(stream *Stream, placer Placer, square Square, noDuplicates bool) []Edge {
	batchPtr := edgeBatchPool.Get()
	batch := (*batchPtr)[:0]
	if uint64(cap(batch)) < square.NEdges {
		batch = make([]Edge, 0, square.NEdges)
	}
	batch = placer.Place(stream, square, batch, nil)
	if noDuplicates {
		batch = Dedup(stream, placer, square, batch)
	}
	return batch
}

// releaseBatch returns a batch slice to edgeBatchPool for reuse.
func releaseBatch(batch []Edge) {
	edgeBatchPool.Put(&batch)
}

// RunUnsortedMutex is the U1 variant: each of min(nThreads, len(squares))
// workers takes the next Square from the worker pool's shared task
// channel, fills a batch per Square, then
// serializes it while holding the writer mutex. Output order across
// Squares is unspecified. Grounded on the reference's mutex-writer path,
// adapted onto the generic worker-pool's ForEach so every claimed Square
// runs through one concurrent-map step instead of a hand-rolled stride
// loop per goroutine.
func RunUnsortedMutex(ctx context.Context, squares []Square, placer Placer, w *Writer, noDuplicates bool, nThreads int) error {
	config := parallel.DefaultPoolConfig().WithWorkers(min(nThreads, len(squares)))

	var writeMu sync.Mutex
	_, err := parallel.ForEach(ctx, squares, config, func(_ context.Context, square Square) error {
		stream := NewStream()
		batch := fillBatch(stream, placer, square, noDuplicates)

		writeMu.Lock()
		defer writeMu.Unlock()
		err := w.WriteBatch(batch)
		releaseBatch(batch)
		return err
	})
	return err
}

// squareQueue is the thread-safe Square-input queue named in §5: a single
// mutex guards collections.Queue's head-pointer FIFO so nThreads workers
// can pop concurrently. Every Square is loaded up front and the queue only
// ever drains, so a plain mutex gives the same producer/consumer safety
// the reference's head+tail-locked threadsafe_queue provides without
// needing a condition variable — once empty, it stays empty.
type squareQueue struct {
	mu sync.Mutex
	q  *collections.Queue[Square]
}

func newSquareQueue(squares []Square) *squareQueue {
	q := collections.NewQueue[Square](len(squares))
	for _, s := range squares {
		q.Enqueue(s)
	}
	return &squareQueue{q: q}
}

func (sq *squareQueue) pop() (Square, bool) {
	sq.mu.Lock()
	defer sq.mu.Unlock()
	return sq.q.Dequeue()
}

// RunUnsortedQueue is the U2 variant: a shared Square queue feeds
// nThreads workers, each of which passes through the CapacityGate before
// generating a batch and handing it to the main thread over a batch
// channel; the main thread drains batches in arrival order, serializes
// them, and dissipates their size back into the gate.
func RunUnsortedQueue(ctx context.Context, squares []Square, placer Placer, w *Writer, noDuplicates bool, nThreads int, gate *CapacityGate) error {
	queue := newSquareQueue(squares)

	type result struct {
		batch []Edge
		err   error
	}
	batchCh := make(chan result, nThreads)

	var wg sync.WaitGroup
	for i := 0; i < nThreads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stream := NewStream()
			for {
				square, ok := queue.pop()
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				default:
				}
				gate.Accumulate(square.NEdges)
				batch := fillBatch(stream, placer, square, noDuplicates)
				batchCh <- result{batch: batch}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(batchCh)
	}()

	var firstErr error
	for r := range batchCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		if firstErr == nil {
			if err := w.WriteBatch(r.batch); err != nil {
				firstErr = err
			}
		}
		gate.Dissipate(uint64(len(r.batch)))
		releaseBatch(r.batch)
	}
	return firstErr
}
