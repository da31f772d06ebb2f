package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the capture pipeline. A nil
// *Metrics is valid and records nothing, which keeps component tests free
// of global registry state.
type Metrics struct {
	// Receive loop
	PacketsReceived prometheus.Counter
	BytesReceived   prometheus.Counter
	ReceiveErrors   prometheus.Counter
	QueueDepth      prometheus.Gauge

	// Decoding
	PacketsDecoded prometheus.Counter
	ValuesDecoded  prometheus.Counter
	DecodeErrors   prometheus.Counter

	// Sink
	Flushes      prometheus.Counter
	FlushedBytes prometheus.Counter
	FlushErrors  prometheus.Counter
}

// New creates and registers all pipeline metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		PacketsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_packets_received_total",
			Help: "Total number of UDP datagrams received",
		}),
		BytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_bytes_received_total",
			Help: "Total number of payload bytes received",
		}),
		ReceiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_receive_errors_total",
			Help: "Total number of failed UDP receive operations",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "udp_to_csv_queue_depth",
			Help: "Current number of packets waiting for the consumer",
		}),
		PacketsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_packets_decoded_total",
			Help: "Total number of packets decoded",
		}),
		ValuesDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_values_decoded_total",
			Help: "Total number of scalar values decoded",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_decode_errors_total",
			Help: "Total number of packets whose decoding stopped early",
		}),
		Flushes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_flushes_total",
			Help: "Total number of completed sink flushes",
		}),
		FlushedBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_flushed_bytes_total",
			Help: "Total number of CSV bytes written by the sink",
		}),
		FlushErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "udp_to_csv_flush_errors_total",
			Help: "Total number of flushes dropped due to write failures",
		}),
	}
}

// RecordPacketReceived counts one received datagram and its payload size.
func (m *Metrics) RecordPacketReceived(bytes int) {
	if m == nil {
		return
	}
	m.PacketsReceived.Inc()
	m.BytesReceived.Add(float64(bytes))
}

// RecordReceiveError counts one failed receive operation.
func (m *Metrics) RecordReceiveError() {
	if m == nil {
		return
	}
	m.ReceiveErrors.Inc()
}

// SetQueueDepth sets the current consumer queue depth.
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(depth))
}

// RecordPacketDecoded counts one decoded packet and its value count.
func (m *Metrics) RecordPacketDecoded(values int) {
	if m == nil {
		return
	}
	m.PacketsDecoded.Inc()
	m.ValuesDecoded.Add(float64(values))
}

// RecordDecodeError counts one packet whose decoding stopped early.
func (m *Metrics) RecordDecodeError() {
	if m == nil {
		return
	}
	m.DecodeErrors.Inc()
}

// RecordFlush counts one completed flush of the given size.
func (m *Metrics) RecordFlush(bytes int) {
	if m == nil {
		return
	}
	m.Flushes.Inc()
	m.FlushedBytes.Add(float64(bytes))
}

// RecordFlushError counts one dropped batch.
func (m *Metrics) RecordFlushError() {
	if m == nil {
		return
	}
	m.FlushErrors.Inc()
}
