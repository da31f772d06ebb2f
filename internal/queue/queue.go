package queue

import "sync"

// Queue is an unbounded, ordered, multiple-producer/single-consumer FIFO of
// packet buffers. Push never blocks, so the receive loop can never stall on
// a slow consumer; memory may grow without bound under sustained consumer
// stall, which is a deliberate backpressure-avoidance tradeoff.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  [][]byte
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a packet to the queue. It never blocks. Pushing to a closed
// queue drops the packet.
func (q *Queue) Push(data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.items = append(q.items, data)
	q.cond.Signal()
}

// Pop removes and returns the oldest packet, blocking until one is
// available. Once the queue is closed and drained it returns (nil, false),
// signalling producer disconnect to the consumer.
func (q *Queue) Pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Close marks the producer side as disconnected. Packets already queued
// remain poppable; Pop returns false once they are drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued packets.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
