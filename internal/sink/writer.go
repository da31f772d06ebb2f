package sink

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/piethoff/udp-to-csv/internal/metrics"
)

// DefaultFlushThreshold is the number of packets accumulated between file
// flushes when no other threshold is configured.
const DefaultFlushThreshold = 1000

// Writer accumulates one packet's formatted text after another and flushes
// the buffer according to the output policy chosen at startup:
//
//   - console: the buffer is written to the console and cleared after every
//     packet, so output reflects each packet as soon as it is decoded;
//   - file: the buffer accumulates across packets and is appended to the
//     destination file as a single newline-terminated line once the flush
//     threshold is reached.
//
// Flushed text is never re-read or mutated. The writer is owned by the
// single pipeline consumer and is not safe for concurrent use.
type Writer struct {
	path      string // empty means console output
	threshold int
	console   io.Writer
	logger    *slog.Logger
	metrics   *metrics.Metrics

	buf   strings.Builder
	count int
}

// New creates a writer for the given destination. An empty path selects the
// console policy on console (normally os.Stdout); a non-empty path selects
// the file policy with the given flush threshold.
func New(path string, threshold int, console io.Writer, logger *slog.Logger, m *metrics.Metrics) *Writer {
	if threshold <= 0 {
		threshold = DefaultFlushThreshold
	}
	return &Writer{
		path:      path,
		threshold: threshold,
		console:   console,
		logger:    logger,
		metrics:   m,
	}
}

// Append adds one packet's formatted fragment to the buffer and applies the
// flush policy. Fragments are concatenated with no separator; flush
// boundaries are the only segmentation in the output.
func (w *Writer) Append(fragment string) {
	w.buf.WriteString(fragment)

	if w.path == "" {
		w.writeConsole()
		return
	}

	w.count++
	if w.count >= w.threshold {
		w.flushFile()
	}
}

// Close performs the shutdown flush: whatever remains in the buffer is
// written exactly once more, regardless of the threshold.
func (w *Writer) Close() {
	if w.path == "" {
		w.writeConsole()
		return
	}
	w.flushFile()
}

// Buffered returns the number of packets accumulated since the last flush.
func (w *Writer) Buffered() int {
	return w.count
}

func (w *Writer) writeConsole() {
	text := w.buf.String()
	w.buf.Reset()
	if text == "" {
		return
	}
	if _, err := io.WriteString(w.console, text); err != nil {
		w.metrics.RecordFlushError()
		w.logger.Error("Failed to write to console", slog.String("error", err.Error()))
		return
	}
	w.metrics.RecordFlush(len(text))
}

// flushFile appends the accumulated batch to the destination as one
// newline-terminated line. Each flush is its own open/write/close cycle; a
// failed flush is reported and its batch dropped, never retried.
func (w *Writer) flushFile() {
	text := w.buf.String()
	w.buf.Reset()
	w.count = 0

	if err := w.appendLine(text); err != nil {
		w.metrics.RecordFlushError()
		w.logger.Error("Failed to write batch to file",
			slog.String("path", w.path),
			slog.Int("batch_bytes", len(text)),
			slog.String("error", err.Error()),
		)
		return
	}
	w.metrics.RecordFlush(len(text) + 1)
}

func (w *Writer) appendLine(text string) error {
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, text); err != nil {
		return fmt.Errorf("failed to append batch: %w", err)
	}
	return nil
}
