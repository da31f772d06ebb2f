// Package queue provides the unbounded FIFO connecting the receive loop to
// the pipeline consumer.
package queue
