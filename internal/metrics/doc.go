// Package metrics defines the Prometheus instrumentation for the capture
// pipeline.
package metrics
