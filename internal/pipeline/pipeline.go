package pipeline

import (
	"log/slog"
	"sync/atomic"

	"github.com/piethoff/udp-to-csv/internal/decode"
	"github.com/piethoff/udp-to-csv/internal/metrics"
	"github.com/piethoff/udp-to-csv/internal/queue"
	"github.com/piethoff/udp-to-csv/internal/sink"
)

// Pipeline is the consumer side of the capture pipeline: it pops packets
// from the queue in arrival order and runs decode, format and sink append
// for each. When the producer disconnects (queue closed and drained) it
// performs the final shutdown flush and terminates.
type Pipeline struct {
	elemType decode.ElementType
	queue    *queue.Queue
	sink     *sink.Writer
	logger   *slog.Logger
	metrics  *metrics.Metrics

	packets      atomic.Uint64
	decodeErrors atomic.Uint64
	done         chan struct{}
}

// Stats summarizes consumer-side activity.
type Stats struct {
	PacketsProcessed uint64
	DecodeErrors     uint64
}

// New creates a pipeline consuming from q and writing to w.
func New(t decode.ElementType, q *queue.Queue, w *sink.Writer, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		elemType: t,
		queue:    q,
		sink:     w,
		logger:   logger,
		metrics:  m,
		done:     make(chan struct{}),
	}
}

// Start launches the consumer goroutine.
func (p *Pipeline) Start() {
	go p.consume()
}

// Wait blocks until the consumer has performed the final flush and exited.
func (p *Pipeline) Wait() {
	<-p.done
}

// Stats returns the consumer counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		PacketsProcessed: p.packets.Load(),
		DecodeErrors:     p.decodeErrors.Load(),
	}
}

func (p *Pipeline) consume() {
	defer close(p.done)

	for {
		data, ok := p.queue.Pop()
		if !ok {
			p.logger.Info("Producer disconnected, flushing remaining output")
			p.sink.Close()
			return
		}
		p.metrics.SetQueueDepth(p.queue.Len())

		values, err := decode.Decode(p.elemType, data)
		if err != nil {
			// Decoding stops at the failure; values produced so far
			// are kept.
			p.decodeErrors.Add(1)
			p.metrics.RecordDecodeError()
			p.logger.Error("Error while parsing packet",
				slog.Int("packet_bytes", len(data)),
				slog.String("error", err.Error()),
			)
		}

		p.sink.Append(decode.Format(values))
		p.packets.Add(1)
		p.metrics.RecordPacketDecoded(len(values))
	}
}
