// Package decode interprets raw datagram payloads as homogeneous sequences
// of fixed-width typed values and renders them as CSV fragments.
package decode
