package rmat

import (
	"testing"

	"pgregory.net/rapid"
)

// TestProperty_ShatterConservesQuota checks that, for any valid weight
// triple and any starting quota, one shatter call's children sum back to
// the parent's NEdges — the invariant the whole Partitioner depends on.
func TestProperty_ShatterConservesQuota(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nEdges := rapid.Uint64Range(1, 1_000_000).Draw(rt, "nEdges")
		a := rapid.Float64Range(0.01, 0.7).Draw(rt, "a")
		b := rapid.Float64Range(0.01, 0.75-a).Draw(rt, "b")
		c := rapid.Float64Range(0.01, 0.8-a-b).Draw(rt, "c")
		undirected := rapid.Bool().Draw(rt, "undirected")

		root := RootSquare(1<<20, nEdges)
		children := shatter([]Square{root}, 0, a, b, c, undirected)

		var sum uint64
		for _, child := range children {
			sum += child.NEdges
		}
		if sum != nEdges {
			rt.Fatalf("quota not conserved: got %d want %d (a=%v b=%v c=%v undirected=%v)",
				sum, nEdges, a, b, c, undirected)
		}
	})
}

// TestProperty_RecursiveIndexStaysInRange checks recursiveIndex never
// escapes [lo, hi) regardless of the interval width or weight split.
func TestProperty_RecursiveIndexStaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Uint64Range(0, 1<<30).Draw(rt, "lo")
		width := rapid.Uint64Range(1, 1<<20).Draw(rt, "width")
		hi := lo + width
		alpha := rapid.Float64Range(0, 1).Draw(rt, "alpha")
		beta := rapid.Float64Range(0, 1).Draw(rt, "beta")

		stream := NewStream()
		idx := recursiveIndex(stream, lo, hi, alpha, beta, false)
		if idx < lo || idx >= hi {
			rt.Fatalf("recursiveIndex(%d,%d) = %d, out of range", lo, hi, idx)
		}
	})
}

// TestProperty_DedupLeavesNoDuplicates checks that, for any Square small
// enough to force collisions and any batch size up to that Square's area,
// Dedup's output is duplicate-free and the same length as the input.
func TestProperty_DedupLeavesNoDuplicates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.Uint64Range(1, 8).Draw(rt, "width")
		n := rapid.IntRange(1, int(width*width)).Draw(rt, "n")

		square := Square{XStart: 0, XEnd: width, YStart: 0, YEnd: width, NEdges: uint64(n)}
		placer := Placer{A: 0.57, B: 0.19, C: 0.19, Directed: true, AllowSelf: true}
		stream := NewStream()

		batch := placer.Place(stream, square, make([]Edge, 0, n), nil)
		out := Dedup(stream, placer, square, batch)

		if len(out) != n {
			rt.Fatalf("Dedup changed length: got %d want %d", len(out), n)
		}
		seen := make(map[Edge]bool, len(out))
		for _, e := range out {
			if seen[e] {
				rt.Fatalf("duplicate edge %+v survived Dedup", e)
			}
			seen[e] = true
		}
	})
}

// TestProperty_PlacerRespectsNoSelfEdges checks that AllowSelf=false never
// produces a self edge, across random Square shapes and weight splits.
func TestProperty_PlacerRespectsNoSelfEdges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.Uint64Range(2, 1<<16).Draw(rt, "width")
		n := rapid.IntRange(1, 200).Draw(rt, "n")
		a := rapid.Float64Range(0.1, 0.6).Draw(rt, "a")
		b := rapid.Float64Range(0.1, 0.3).Draw(rt, "b")
		c := rapid.Float64Range(0.1, 0.3).Draw(rt, "c")

		square := Square{XStart: 0, XEnd: width, YStart: 0, YEnd: width, NEdges: uint64(n)}
		placer := Placer{A: a, B: b, C: c, Directed: true, AllowSelf: false}
		stream := NewStream()

		batch := placer.Place(stream, square, nil, nil)
		for _, e := range batch {
			if e.SelfEdge() {
				rt.Fatalf("found disallowed self edge %+v", e)
			}
		}
	})
}
