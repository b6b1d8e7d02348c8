package rmat

import (
	"sort"

	"github.com/parmatgo/parmat/pkg/collections"
)

// Dedup enforces the no-duplicate-edge policy on one Square's (or one
// Sorted-mode column's) batch by repeated sort-scan-replace rounds: sort on
// (Src, Dst), mark every slot whose predecessor is equal, ask the placer to
// overwrite exactly those slots, and repeat until a round produces no new
// duplicates. Batch order on return reflects the last sort, not insertion
// order — callers that need a different final order must re-sort.
//
// The marked-slot set is a Bitset rather than an appended []int: duplicate
// slots cluster at the tail of a sorted batch, and a batch can run to
// millions of edges, so a bit per slot beats growing a slice of indices.
func Dedup(stream *Stream, placer Placer, square Square, batch []Edge) []Edge {
	for {
		sort.Slice(batch, func(i, j int) bool { return batch[i].Less(batch[j]) })

		dup := collections.NewBitset(len(batch))
		var found bool
		for i := 1; i < len(batch); i++ {
			if batch[i].Equal(batch[i-1]) {
				dup.Set(i)
				found = true
			}
		}
		if !found {
			return batch
		}
		batch = placer.Place(stream, square, batch, dup.ToSlice())
	}
}
