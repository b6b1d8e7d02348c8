package rmat

import (
	"bufio"
	"os"

	"github.com/parmatgo/parmat/pkg/compression"
	apperrors "github.com/parmatgo/parmat/pkg/errors"
)

// Writer appends generated edges to an output file as "<src>\t<dst>\n"
// lines — no header, no trailer, no per-line prefix. It optionally wraps
// the file in a streaming compressor; the plain (uncompressed) path is
// byte-for-byte the reference file format.
type Writer struct {
	file  *os.File
	sink  *bufio.Writer
	comp  interface{ Close() error }
	flush bool
}

// NewWriter opens path for writing and wraps it in the requested
// compression codec. flushEachBatch mirrors the reference implementation's
// flush-after-every-batch variant; passing false lets bufio coalesce writes
// for higher throughput.
func NewWriter(path string, codec compression.Type, flushEachBatch bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "cannot open output file", err)
	}

	compressed, err := compression.NewStreamWriter(f, codec, compression.LevelDefault)
	if err != nil {
		f.Close()
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "cannot initialize compressor", err)
	}

	return &Writer{
		file:  f,
		sink:  bufio.NewWriterSize(compressed, 1<<20),
		comp:  compressed,
		flush: flushEachBatch,
	}, nil
}

// WriteBatch serializes every edge in batch, in slice order.
func (w *Writer) WriteBatch(batch []Edge) error {
	for _, e := range batch {
		if _, err := w.sink.WriteString(e.String()); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writer append failed", err)
		}
		if err := w.sink.WriteByte('\n'); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writer append failed", err)
		}
	}
	if w.flush {
		if err := w.sink.Flush(); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writer flush failed", err)
		}
	}
	return nil
}

// Close flushes all buffered output, closes the compressor, and closes the
// underlying file.
func (w *Writer) Close() error {
	if err := w.sink.Flush(); err != nil {
		w.comp.Close()
		w.file.Close()
		return apperrors.Wrap(apperrors.CodeIOError, "writer flush failed", err)
	}
	if err := w.comp.Close(); err != nil {
		w.file.Close()
		return apperrors.Wrap(apperrors.CodeIOError, "compressor close failed", err)
	}
	if err := w.file.Close(); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "file close failed", err)
	}
	return nil
}
