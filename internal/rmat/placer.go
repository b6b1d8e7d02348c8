package rmat

import "math"

// placementNoiseMagnitude bounds the per-step perturbation recursive_index
// optionally injects into (alpha+beta) when placement noise is enabled
// (§Supplemented Features — placementNoise).
const placementNoiseMagnitude = 0.002

// recursiveIndex simulates one R-MAT descent in floating point over
// [lo, hi): at each step it bisects the interval and, with probability
// alpha+beta, keeps the lower half. The interval halves every step, so the
// loop runs floor(log2(hi-lo))+1 times, until it is narrower than one cell;
// the floor of its midpoint is then returned, which always lies in [lo, hi).
func recursiveIndex(stream *Stream, lo, hi VertexIndex, alpha, beta float64, placementNoise bool) VertexIndex {
	loF, hiF := float64(lo), float64(hi)
	for hiF-loF >= 1.0 {
		cut := alpha + beta
		if placementNoise {
			cut += (stream.Float64()*2 - 1) * placementNoiseMagnitude
		}
		mid := (loF + hiF) / 2
		if stream.Float64() < cut {
			hiF = mid
		} else {
			loF = mid
		}
	}
	return VertexIndex(math.Floor((loF + hiF) / 2))
}

// Placer draws edges for one Square according to the R-MAT weights. It is
// the per-worker entry point into recursiveIndex and the rejection tests.
type Placer struct {
	A, B, C        float64
	Directed       bool
	AllowSelf      bool
	PlacementNoise bool
}

// Place appends square.NEdges freshly drawn edges to batch when
// duplicateSlots is empty; otherwise it overwrites batch at exactly the
// positions named by duplicateSlots, drawing one replacement edge per
// slot. This mirrors generate_edges' create-vs-replace duality.
func (p Placer) Place(stream *Stream, square Square, batch []Edge, duplicateSlots []int) []Edge {
	// A Square strictly below the diagonal (HIdx < VIdx) already lies
	// entirely in the permitted half of an undirected matrix; only
	// on-or-above-diagonal squares need the triangle rejection test.
	belowDiagonal := p.Directed || square.HIdx < square.VIdx

	createNew := len(duplicateSlots) == 0
	n := square.NEdges
	if !createNew {
		n = uint64(len(duplicateSlots))
	}

	for i := uint64(0); i < n; {
		src := recursiveIndex(stream, square.XStart, square.XEnd, p.A, p.C, p.PlacementNoise)
		dst := recursiveIndex(stream, square.YStart, square.YEnd, p.A, p.B, p.PlacementNoise)

		if !belowDiagonal && src > dst {
			continue
		}
		if !p.AllowSelf && src == dst {
			continue
		}

		e := Edge{Src: src, Dst: dst}
		if createNew {
			batch = append(batch, e)
		} else {
			batch[duplicateSlots[i]] = e
		}
		i++
	}
	return batch
}
