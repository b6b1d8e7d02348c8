package rmat

// Square is a rectangular sub-region of the V×V adjacency matrix carrying
// its own edge quota and partition path. It is grounded on the reference
// Square type, generalized to Go value semantics (no copy constructor
// needed — Square is small and trivially copyable).
type Square struct {
	XStart, XEnd VertexIndex
	YStart, YEnd VertexIndex
	NEdges       uint64
	Level        uint32
	HIdx, VIdx   uint64
}

// Area is the number of matrix cells the Square covers.
func (s Square) Area() uint64 {
	return (s.XEnd - s.XStart) * (s.YEnd - s.YStart)
}

// CapacityEligible reports whether the Square's quota fits the per-worker
// edge budget derived from the RAM envelope.
func (s Square) CapacityEligible(standardCapacity uint64) bool {
	return s.NEdges <= standardCapacity
}

// Overflowed marks a Square too dense for rejection sampling to terminate
// in a reasonable number of rounds. 3*n >= area is the reference
// implementation's heuristic threshold, carried over unchanged.
func (s Square) Overflowed() bool {
	return 3*s.NEdges >= s.Area()
}

// onDiagonal reports whether the Square sits on the adjacency matrix's
// main diagonal, where the undirected policy forbids the upper-triangle
// quadrant.
func (s Square) onDiagonal() bool {
	return s.XStart == s.YStart && s.XEnd == s.YEnd
}

// partitionNoiseMagnitude bounds the absolute perturbation shatter adds to
// each of a, b, c before splitting a parent's quota (§Partitioner: "a small
// random noise, magnitude ≤ 1% absolute").
const partitionNoiseMagnitude = 0.01

// shatter removes squares[idx] and appends its children, splitting its
// edge quota by the (noise-perturbed) R-MAT weights a, b, c. Child order
// within the appended slice is not significant; only the set of children
// matters to callers.
func shatter(squares []Square, idx int, a, b, c float64, undirected bool) []Square {
	parent := squares[idx]
	squares = append(squares[:idx], squares[idx+1:]...)

	na := clampProb(a + noise(partitionNoiseMagnitude))
	nb := clampProb(b + noise(partitionNoiseMagnitude))
	nc := clampProb(c + noise(partitionNoiseMagnitude))

	xMid := parent.XStart + (parent.XEnd-parent.XStart)/2
	yMid := parent.YStart + (parent.YEnd-parent.YStart)/2

	shareA := uint64(float64(parent.NEdges) * na)
	shareB := uint64(float64(parent.NEdges) * nb)
	shareC := uint64(float64(parent.NEdges) * nc)

	children := [4]Square{
		{ // part 0: lower X, lower Y -> a
			XStart: parent.XStart, XEnd: xMid,
			YStart: parent.YStart, YEnd: yMid,
			NEdges: shareA,
			Level:  parent.Level + 1,
			HIdx:   parent.HIdx << 1,
			VIdx:   parent.VIdx << 1,
		},
		{ // part 1: upper X, lower Y -> b
			XStart: xMid, XEnd: parent.XEnd,
			YStart: parent.YStart, YEnd: yMid,
			NEdges: shareB,
			Level:  parent.Level + 1,
			HIdx:   (parent.HIdx << 1) | 1,
			VIdx:   parent.VIdx << 1,
		},
		{ // part 2: lower X, upper Y -> c
			XStart: parent.XStart, XEnd: xMid,
			YStart: yMid, YEnd: parent.YEnd,
			NEdges: shareC,
			Level:  parent.Level + 1,
			HIdx:   parent.HIdx << 1,
			VIdx:   (parent.VIdx << 1) | 1,
		},
		{ // part 3: upper X, upper Y -> d, residual quota
			XStart: xMid, XEnd: parent.XEnd,
			YStart: yMid, YEnd: parent.YEnd,
			NEdges: parent.NEdges - shareA - shareB - shareC,
			Level:  parent.Level + 1,
			HIdx:   (parent.HIdx << 1) | 1,
			VIdx:   (parent.VIdx << 1) | 1,
		},
	}

	if undirected && parent.onDiagonal() {
		// Child 1 (upper-X, lower-Y) lies strictly above the diagonal,
		// which the undirected policy forbids. Fold its quota into child
		// 2, the mirror quadrant below the diagonal.
		children[2].NEdges += children[1].NEdges
		return append(squares, children[0], children[2], children[3])
	}

	return append(squares, children[0], children[1], children[2], children[3])
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// squareLess implements the Square sort order: ascending (HIdx, VIdx).
func squareLess(a, b Square) bool {
	if a.HIdx != b.HIdx {
		return a.HIdx < b.HIdx
	}
	return a.VIdx < b.VIdx
}
