// Package capture owns the UDP socket and the receive loop feeding the
// pipeline queue.
package capture
