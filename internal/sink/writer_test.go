package sink

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeRecorder records every individual Write call.
type writeRecorder struct {
	writes []string
}

func (r *writeRecorder) Write(p []byte) (int, error) {
	r.writes = append(r.writes, string(p))
	return len(p), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsoleWritesPerPacket(t *testing.T) {
	rec := &writeRecorder{}
	w := New("", 0, rec, testLogger(), nil)

	w.Append("10")
	w.Append("20")

	// Each packet produces its own immediate write, never batched.
	require.Equal(t, []string{"10", "20"}, rec.writes)
}

func TestConsoleCloseWithEmptyBuffer(t *testing.T) {
	rec := &writeRecorder{}
	w := New("", 0, rec, testLogger(), nil)

	w.Append("5")
	w.Close()

	require.Equal(t, []string{"5"}, rec.writes)
}

func TestFileFlushAtThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := New(path, 3, nil, testLogger(), nil)

	w.Append("1,2")
	w.Append("3,4")
	require.Equal(t, 2, w.Buffered())

	// Nothing written before the threshold.
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	w.Append("5,6")
	require.Equal(t, 0, w.Buffered())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Fragments concatenate with no separator; the batch is one line.
	require.Equal(t, "1,23,45,6\n", string(data))
}

func TestFileDefaultThreshold(t *testing.T) {
	require.Equal(t, 1000, DefaultFlushThreshold)

	path := filepath.Join(t.TempDir(), "out.csv")
	w := New(path, 0, nil, testLogger(), nil)

	for i := 0; i < DefaultFlushThreshold-1; i++ {
		w.Append("0")
	}
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	w.Append("0")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("0", DefaultFlushThreshold)+"\n", string(data))
	require.Equal(t, 0, w.Buffered())
}

func TestFileShutdownFlushBelowThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := New(path, 1000, nil, testLogger(), nil)

	w.Append("1,2")
	w.Append("3")
	w.Append("4,5")
	w.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1,234,5\n", string(data))
}

func TestFileAppendsNeverTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	w := New(path, 1, nil, testLogger(), nil)
	w.Append("1,2")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "existing\n1,2\n", string(data))
}

func TestFileFlushFailureDropsBatch(t *testing.T) {
	// A directory path makes the open fail.
	dir := t.TempDir()
	w := New(dir, 2, nil, testLogger(), nil)

	w.Append("1")
	w.Append("2")

	// The batch is dropped, not retried or re-buffered.
	require.Equal(t, 0, w.Buffered())

	w.Append("3")
	w.Append("4")
	require.Equal(t, 0, w.Buffered())
}
