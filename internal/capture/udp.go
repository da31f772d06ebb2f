package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/piethoff/udp-to-csv/internal/config"
	"github.com/piethoff/udp-to-csv/internal/metrics"
	"github.com/piethoff/udp-to-csv/internal/queue"
)

// Listener receives UDP datagrams and pushes an owned copy of each payload
// onto the pipeline queue. It never waits for downstream processing.
type Listener struct {
	conn    *net.UDPConn
	queue   *queue.Queue
	logger  *slog.Logger
	metrics *metrics.Metrics
	bufSize int

	wg sync.WaitGroup
}

// Listen binds the UDP socket. A bind failure is returned with the
// attempted address and underlying cause so the caller can emit the
// interface diagnostic before exiting.
func Listen(cfg config.ServerConfig, q *queue.Queue, logger *slog.Logger, m *metrics.Metrics) (*Listener, error) {
	bind := net.JoinHostPort(cfg.BindAddress, strconv.Itoa(cfg.Port))

	addr, err := net.ResolveUDPAddr("udp", bind)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", bind, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not bind to %s: %w", bind, err)
	}

	logger.Info("UDP listener started",
		slog.String("address", addr.String()),
		slog.Int("buffer_size", cfg.BufferSize),
	)

	return &Listener{
		conn:    conn,
		queue:   q,
		logger:  logger,
		metrics: m,
		bufSize: cfg.BufferSize,
	}, nil
}

// Addr returns the bound local address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Start launches the receive loop.
func (l *Listener) Start() {
	l.wg.Add(1)
	go l.receiveLoop()
}

// Stop closes the socket, which ends the receive loop and closes the queue,
// and waits for the loop to exit. The consumer sees producer disconnect
// once the queued packets are drained.
func (l *Listener) Stop() {
	if err := l.conn.Close(); err != nil {
		l.logger.Warn("Error closing UDP socket", slog.String("error", err.Error()))
	}
	l.wg.Wait()
}

// receiveLoop blocks on the socket with no read deadline. A receive error
// is reported and the loop keeps waiting for the next datagram; only
// closing the socket terminates it.
func (l *Listener) receiveLoop() {
	defer l.wg.Done()
	defer l.queue.Close()

	buffer := make([]byte, l.bufSize)

	for {
		n, _, err := l.conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				l.logger.Info("UDP listener stopped")
				return
			}
			l.metrics.RecordReceiveError()
			l.logger.Error("Failed to receive datagram", slog.String("error", err.Error()))
			continue
		}

		// The receive buffer is reused, so each packet gets its own copy.
		data := make([]byte, n)
		copy(data, buffer[:n])
		l.queue.Push(data)

		l.metrics.RecordPacketReceived(n)
		l.metrics.SetQueueDepth(l.queue.Len())
	}
}
