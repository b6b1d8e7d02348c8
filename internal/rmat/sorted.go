package rmat

import "sort"

// columnBatch runs the Placer over every Square in one column, dedupes
// each Square individually when duplicates are disallowed, then
// sort-merges the whole column on (Src, Dst) — the per-column analogue of
// the reference's EachThreadGeneratesEdges.
func columnBatch(stream *Stream, placer Placer, column []Square, noDuplicates bool) []Edge {
	total := uint64(0)
	for _, s := range column {
		total += s.NEdges
	}
	batchPtr := edgeBatchPool.Get()
	batch := (*batchPtr)[:0]
	if uint64(cap(batch)) < total {
		batch = make([]Edge, 0, total)
	}
	for _, square := range column {
		squareBatch := fillBatch(stream, placer, square, noDuplicates)
		batch = append(batch, squareBatch...)
		releaseBatch(squareBatch)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Less(batch[j]) })
	return batch
}

// RunSorted dispatches one goroutine per worker slot over the column set;
// each slot pulls the next unclaimed column, computes its batch, and hands
// it back over a result channel. The main goroutine buffers batches that
// arrive out of order and drains them strictly in ascending column order,
// preserving the globally non-decreasing (src, dst) guarantee the sorted
// mode promises. This is the explicit-threads sub-variant — the
// futures-vs-threads choice the original leaves as a compile-time toggle
// collapses to "threads" here since Go has no separate futures idiom to
// pick (see DESIGN.md).
func RunSorted(columns [][]Square, placer Placer, w *Writer, noDuplicates bool, nThreads int) error {
	if nThreads > len(columns) {
		nThreads = len(columns)
	}
	if nThreads < 1 {
		nThreads = 1
	}

	type result struct {
		idx   int
		batch []Edge
	}

	nextIdx := make(chan int, len(columns))
	for i := range columns {
		nextIdx <- i
	}
	close(nextIdx)

	results := make(chan result, len(columns))
	for slot := 0; slot < nThreads; slot++ {
		go func() {
			stream := NewStream()
			for idx := range nextIdx {
				results <- result{idx: idx, batch: columnBatch(stream, placer, columns[idx], noDuplicates)}
			}
		}()
	}

	pending := make(map[int][]Edge)
	var writeErr error
	for next := 0; next < len(columns); {
		r := <-results
		pending[r.idx] = r.batch
		for {
			batch, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if writeErr == nil {
				writeErr = w.WriteBatch(batch)
			}
			releaseBatch(batch)
			next++
		}
	}
	return writeErr
}
