package rmat

import (
	"unsafe"

	apperrors "github.com/parmatgo/parmat/pkg/errors"
)

const (
	// MinWorkerThreads and MaxWorkerThreads bound the -threads flag.
	MinWorkerThreads = 1
	MaxWorkerThreads = 128

	// smallRequestThreshold is the nEdges below which generation is
	// forced single-threaded — parallel setup overhead would dominate.
	smallRequestThreshold = 10000
)

// edgeSize is sizeof(Edge) for the capacity formula below; Edge is two
// VertexIndex fields with no padding.
var edgeSize = uint64(unsafe.Sizeof(Edge{}))

// Params is the fully validated, resolved set of generation parameters —
// the engine's only input once the CLI has parsed and checked flags.
type Params struct {
	NEdges    uint64
	NVertices VertexIndex
	A, B, C   float64

	Threads int
	Sorted  bool

	NoEdgeToSelf     bool
	NoDuplicateEdges bool
	Undirected       bool
	PlacementNoise   bool

	Output         string
	Compress       string
	FlushEachBatch bool
	DebugSquares   bool
	StatsOutput    string
}

// Validate checks the preconditions from the external interface: positive
// counts and a feasible nEdges < nVertices^2. It does not touch the
// filesystem; callers open the output file separately so that an
// unopenable path surfaces as the same ConfigError class.
func (p Params) Validate() error {
	if p.NVertices == 0 {
		return apperrors.New(apperrors.CodeConfigError, "nVertices must be > 0")
	}
	if p.NEdges == 0 {
		return apperrors.New(apperrors.CodeConfigError, "nEdges must be > 0")
	}
	maxEdges, overflow := squareMul(p.NVertices)
	if !overflow && p.NEdges >= maxEdges {
		return apperrors.New(apperrors.CodeConfigError, "nEdges must be < nVertices^2")
	}
	if p.A < 0 || p.A > 1 || p.B < 0 || p.B > 1 || p.C < 0 || p.C > 1 {
		return apperrors.New(apperrors.CodeConfigError, "a, b, c must each be in [0,1]")
	}
	if p.A+p.B+p.C >= 1 {
		return apperrors.New(apperrors.CodeConfigError, "a+b+c must be < 1 (d = 1-a-b-c must be positive)")
	}
	return nil
}

// squareMul returns nVertices*nVertices, and whether it overflowed
// uint64 (in which case nEdges — itself a uint64 — can never equal or
// exceed it, so the feasibility check is vacuously satisfied).
func squareMul(v VertexIndex) (uint64, bool) {
	if v == 0 {
		return 0, false
	}
	sq := v * v
	return sq, sq/v != v
}

// ResolvedThreads clamps the requested thread count to
// [MinWorkerThreads, MaxWorkerThreads] and applies the small-request
// override: any request under smallRequestThreshold edges runs
// single-threaded regardless of the requested count.
func (p Params) ResolvedThreads() int {
	if p.NEdges < smallRequestThreshold {
		return 1
	}
	t := p.Threads
	if t < MinWorkerThreads {
		t = MinWorkerThreads
	}
	if t > MaxWorkerThreads {
		t = MaxWorkerThreads
	}
	return t
}

// StandardCapacity derives the per-thread edge budget from the available
// RAM envelope: availableRAM / (2 * nThreads * sizeof(Edge)). The factor
// of 2 accounts for a batch slice's amortized growth overhead.
func StandardCapacity(availableRAM uint64, nThreads int) uint64 {
	denom := 2 * uint64(nThreads) * edgeSize
	if denom == 0 {
		return availableRAM
	}
	return availableRAM / denom
}
