// Package pipeline runs the single consumer that turns queued packets into
// CSV output.
package pipeline
