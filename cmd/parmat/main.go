// Command parmat generates a synthetic directed (or undirected) graph using
// the R-MAT recursive matrix model and writes its edge list to a file.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/parmatgo/parmat/internal/rmat"
	"github.com/parmatgo/parmat/internal/telemetry"
	apperrors "github.com/parmatgo/parmat/pkg/errors"
	"github.com/parmatgo/parmat/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("parmat", flag.ContinueOnError)

	nEdges := fs.Uint64("nEdges", 0, "number of edges to generate (required)")
	nVertices := fs.Uint64("nVertices", 0, "number of vertices in the graph (required)")
	output := fs.String("output", "", "output file path (required)")
	a := fs.Float64("a", 0.45, "R-MAT parameter a")
	b := fs.Float64("b", 0.22, "R-MAT parameter b")
	c := fs.Float64("c", 0.22, "R-MAT parameter c")
	threads := fs.Int("threads", rmat.DefaultThreads(), "number of worker threads")
	sorted := fs.Bool("sorted", false, "emit edges in globally sorted (src, dst) order")
	memUsage := fs.Float64("memUsage", 0.5, "fraction of physical RAM the generator may use")
	noEdgeToSelf := fs.Bool("noEdgeToSelf", false, "reject self edges")
	noDuplicateEdges := fs.Bool("noDuplicateEdges", false, "reject duplicate edges")
	undirected := fs.Bool("undirected", false, "generate an undirected graph (no edge above the diagonal)")
	compress := fs.String("compress", "none", "output compression: none, gzip, or zstd")
	debugSquares := fs.Bool("debugSquares", false, "log every partition Square at debug level")
	placementNoise := fs.Bool("placementNoise", false, "perturb recursive_index's split probability at every level")
	flushEachBatch := fs.Bool("flushEachBatch", false, "flush the output writer after every batch")
	statsOutput := fs.String("statsOutput", "", "optional path to write a JSON timing summary")
	verbose := fs.Bool("v", false, "shorthand for -logLevel debug")
	logLevel := fs.String("logLevel", "info", "log level: debug, info, warn, or error")
	logFile := fs.String("logFile", "", "optional path to write logs to instead of stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := utils.ParseLogLevel(*logLevel)
	if *verbose {
		level = utils.LevelDebug
	}
	var logger *utils.DefaultLogger
	if *logFile != "" {
		var err error
		logger, err = utils.NewFileLogger(level, *logFile)
		if err != nil {
			logger = utils.NewDefaultLogger(level, os.Stderr)
			logger.Warn("failed to open -logFile %q, logging to stderr: %v", *logFile, err)
		}
	} else {
		logger = utils.NewDefaultLogger(level, os.Stderr)
	}

	logger.Info("parmat: parallel R-MAT graph generator")

	params := rmat.Params{
		NEdges:           *nEdges,
		NVertices:        *nVertices,
		A:                *a,
		B:                *b,
		C:                *c,
		Threads:          *threads,
		Sorted:           *sorted,
		NoEdgeToSelf:     *noEdgeToSelf,
		NoDuplicateEdges: *noDuplicateEdges,
		Undirected:       *undirected,
		PlacementNoise:   *placementNoise,
		Output:           *output,
		Compress:         *compress,
		FlushEachBatch:   *flushEachBatch,
		DebugSquares:     *debugSquares,
		StatsOutput:      *statsOutput,
	}

	if *output == "" {
		return fail(logger, apperrors.New(apperrors.CodeConfigError, "-output is required"))
	}
	if err := params.Validate(); err != nil {
		return fail(logger, err)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		logger.Warn("telemetry init failed, continuing without tracing: %v", err)
	} else {
		defer shutdown(ctx)
	}

	engine := rmat.NewEngine()
	engine.Logger = logger
	engine.MemUsage = *memUsage
	engine.Timer = utils.NewTimer("parmat", utils.WithLogger(logger), utils.WithEnabled(true))

	if err := engine.Generate(ctx, params); err != nil {
		return fail(logger, err)
	}
	return 0
}

func fail(logger utils.Logger, err error) int {
	logger.Error("%v", err)
	if apperrors.IsConfigError(err) {
		return 2
	}
	if apperrors.IsIOError(err) {
		return 3
	}
	return 1
}
