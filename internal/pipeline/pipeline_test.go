package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piethoff/udp-to-csv/internal/decode"
	"github.com/piethoff/udp-to-csv/internal/queue"
	"github.com/piethoff/udp-to-csv/internal/sink"
)

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

func runPipeline(t *testing.T, elemType decode.ElementType, w *sink.Writer, packets [][]byte) *Pipeline {
	t.Helper()

	q := queue.New()
	p := New(elemType, q, w, testLogger(), nil)
	p.Start()

	for _, pkt := range packets {
		q.Push(pkt)
	}
	q.Close()
	p.Wait()
	return p
}

func TestPipelineU16Console(t *testing.T) {
	rec := &writeRecorder{}
	w := sink.New("", 0, rec, testLogger(), nil)

	p := runPipeline(t, decode.TypeU16, w, [][]byte{
		{0x00, 0x01, 0x00, 0x02},
	})

	require.Equal(t, []string{"1,2"}, rec.writes)
	require.Equal(t, uint64(1), p.Stats().PacketsProcessed)
	require.Equal(t, uint64(0), p.Stats().DecodeErrors)
}

func TestPipelineConsoleWritesAreImmediate(t *testing.T) {
	rec := &writeRecorder{}
	w := sink.New("", 0, rec, testLogger(), nil)

	runPipeline(t, decode.TypeU8, w, [][]byte{
		{10},
		{20},
	})

	// Two packets, two separate console writes.
	require.Equal(t, []string{"10", "20"}, rec.writes)
}

func TestPipelineShutdownFlushToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := sink.New(path, 1000, nil, testLogger(), nil)

	p := runPipeline(t, decode.TypeU8, w, [][]byte{
		{1},
		{2},
		{3},
	})

	// Producer disconnect triggers exactly one flush below the threshold.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "123\n", string(data))
	require.Equal(t, uint64(3), p.Stats().PacketsProcessed)
}

func TestPipelineBoolBitsLSBFirst(t *testing.T) {
	rec := &writeRecorder{}
	w := sink.New("", 0, rec, testLogger(), nil)

	runPipeline(t, decode.TypeBool, w, [][]byte{
		{0b00000101},
	})

	require.Equal(t, []string{"1,0,1,0,0,0,0,0"}, rec.writes)
}

func TestPipelineDropsTrailingBytes(t *testing.T) {
	rec := &writeRecorder{}
	w := sink.New("", 0, rec, testLogger(), nil)

	runPipeline(t, decode.TypeU16, w, [][]byte{
		{0x00, 0x07, 0xFF}, // trailing byte does not fill a u16
	})

	require.Equal(t, []string{"7"}, rec.writes)
}

func TestPipelinePreservesArrivalOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := sink.New(path, 1000, nil, testLogger(), nil)

	packets := make([][]byte, 0, 50)
	for i := 0; i < 50; i++ {
		packets = append(packets, []byte{byte(i), byte(i + 1)})
	}
	runPipeline(t, decode.TypeU8, w, packets)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := ""
	for i := 0; i < 50; i++ {
		expected += decode.Format([]int64{int64(i), int64(i + 1)})
	}
	require.Equal(t, expected+"\n", string(data))
}
