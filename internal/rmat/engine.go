package rmat

import (
	"context"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/parmatgo/parmat/internal/sysmem"
	"github.com/parmatgo/parmat/pkg/compression"
	apperrors "github.com/parmatgo/parmat/pkg/errors"
	"github.com/parmatgo/parmat/pkg/utils"
	jsonwriter "github.com/parmatgo/parmat/pkg/writer"
)

// UnsortedVariant selects between the two unsorted work-coordination
// strategies named in the source material; both satisfy the same output
// contract.
type UnsortedVariant int

const (
	// UnsortedQueue is the dual-queue + CapacityGate variant (U2).
	UnsortedQueue UnsortedVariant = iota
	// UnsortedMutex is the shared-writer-with-mutex variant (U1).
	UnsortedMutex
)

// Engine ties the partitioning, placement, dedup, capacity, and
// coordination stages together into the single Generate entry point the
// CLI calls.
type Engine struct {
	Logger          utils.Logger
	Timer           *utils.Timer
	UnsortedVariant UnsortedVariant
	MemUsage        float64
}

// NewEngine returns an Engine with a disabled timer, the null logger, and
// the default RAM-usage fraction; callers typically override these from
// CLI flags.
func NewEngine() *Engine {
	return &Engine{
		Logger:   &utils.NullLogger{},
		Timer:    utils.NewTimer("generate", utils.WithEnabled(false)),
		MemUsage: 0.5,
	}
}

// Generate runs the full pipeline: derive capacity, shatter the root
// Square, dispatch to the sorted or unsorted coordinator, and close the
// writer. params must already have passed Params.Validate.
func (e *Engine) Generate(ctx context.Context, params Params) error {
	tracer := otel.Tracer("parmat")
	threads := params.ResolvedThreads()

	standardCapacity, usageFraction, err := e.standardCapacity(threads)
	if err != nil {
		return err
	}

	e.Logger.Info("nEdges=%d nVertices=%d a=%.3f b=%.3f c=%.3f threads=%d sorted=%v memUsage=%.2f noEdgeToSelf=%v noDuplicateEdges=%v undirected=%v",
		params.NEdges, params.NVertices, params.A, params.B, params.C, threads, params.Sorted, usageFraction,
		params.NoEdgeToSelf, params.NoDuplicateEdges, params.Undirected)
	e.Logger.Info("Each thread capacity is %d edges.", standardCapacity)

	codec, err := compression.ParseType(params.Compress)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, "invalid -compress value", err)
	}

	writer, err := NewWriter(params.Output, codec, params.FlushEachBatch)
	if err != nil {
		return err
	}
	defer writer.Close()

	placer := Placer{
		A: params.A, B: params.B, C: params.C,
		Directed:       !params.Undirected,
		AllowSelf:      !params.NoEdgeToSelf,
		PlacementNoise: params.PlacementNoise,
	}

	squares, err := e.shatter(ctx, tracer, params, standardCapacity, threads)
	if err != nil {
		return err
	}

	if params.DebugSquares {
		for _, s := range squares {
			e.Logger.Debug("square x=[%d,%d) y=[%d,%d) n=%d level=%d h=%d v=%d",
				s.XStart, s.XEnd, s.YStart, s.YEnd, s.NEdges, s.Level, s.HIdx, s.VIdx)
		}
	}
	e.Logger.Info("%d partition(s) specified.", len(squares))
	e.Logger.Info("Generating the graph ...")

	if err := e.generateAndWrite(ctx, tracer, params, placer, writer, squares, standardCapacity, threads); err != nil {
		return err
	}

	e.Timer.PrintSummary()

	if params.StatsOutput != "" {
		jw := jsonwriter.NewPrettyJSONWriter[map[string]interface{}]()
		if err := jw.WriteToFile(e.Timer.ToMap(), params.StatsOutput); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "cannot write stats output", err)
		}
	}
	return nil
}

// standardCapacity derives the per-thread edge budget from the configured
// RAM-usage fraction and the probed physical memory total.
func (e *Engine) standardCapacity(threads int) (capacity uint64, usageFraction float64, err error) {
	total, err := sysmem.TotalSystemMemory()
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.CodeConfigError, "cannot determine system memory", err)
	}
	usageFraction = sysmem.ClampUsageFraction(e.MemUsage)
	available := sysmem.AvailableRAM(total, usageFraction)
	return StandardCapacity(available, threads), usageFraction, nil
}

// shatter runs the shattering loop inside a "parmat.shatter" span and the
// configured Timer phase, then checks edge-count conservation.
func (e *Engine) shatter(ctx context.Context, tracer trace.Tracer, params Params, standardCapacity uint64, threads int) ([]Square, error) {
	_, span := tracer.Start(ctx, "parmat.shatter")
	defer span.End()

	var squares []Square
	_, err := e.Timer.TimeFuncWithError("shatter", func() error {
		root := RootSquare(params.NVertices, params.NEdges)
		if params.Sorted {
			squares = ShatterSorted([]Square{root}, standardCapacity, threads, params.A, params.B, params.C, params.Undirected)
		} else {
			squares = ShatterUnsorted([]Square{root}, standardCapacity, params.A, params.B, params.C, params.Undirected)
		}
		return verifyConservation(squares, params.NEdges)
	})
	return squares, err
}

// generateAndWrite runs the generate+write phase inside matching spans and
// the configured Timer phase, dispatching to the selected coordinator.
func (e *Engine) generateAndWrite(ctx context.Context, tracer trace.Tracer, params Params, placer Placer, writer *Writer, squares []Square, standardCapacity uint64, threads int) error {
	_, genSpan := tracer.Start(ctx, "parmat.generate")
	_, writeSpan := tracer.Start(ctx, "parmat.write")
	defer genSpan.End()
	defer writeSpan.End()

	_, err := e.Timer.TimeFuncWithError("generate+write", func() error {
		if params.Sorted {
			columns := Columns(squares)
			return RunSorted(columns, placer, writer, params.NoDuplicateEdges, threads)
		}
		switch e.UnsortedVariant {
		case UnsortedMutex:
			return RunUnsortedMutex(ctx, squares, placer, writer, params.NoDuplicateEdges, threads)
		default:
			gate := NewCapacityGate(standardCapacity)
			return RunUnsortedQueue(ctx, squares, placer, writer, params.NoDuplicateEdges, threads, gate)
		}
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "generation failed", err)
	}
	return nil
}

// verifyConservation checks the edge-count-conservation invariant: leaf
// quotas must sum exactly to the originally requested count. A mismatch is
// a programming error in the Partitioner, not a user-facing condition.
func verifyConservation(squares []Square, want uint64) error {
	var sum uint64
	for _, s := range squares {
		sum += s.NEdges
	}
	if sum != want {
		return apperrors.Wrap(apperrors.CodeInternalError, fmt.Sprintf("edge-count conservation violated: got %d want %d", sum, want), nil)
	}
	return nil
}

// DefaultThreads mirrors the reference's max(1, hardware_concurrency-1)
// default, clamped to the allowed range.
func DefaultThreads() int {
	n := runtime.NumCPU() - 1
	if n < MinWorkerThreads {
		n = MinWorkerThreads
	}
	if n > MaxWorkerThreads {
		n = MaxWorkerThreads
	}
	return n
}
