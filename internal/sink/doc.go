// Package sink accumulates formatted CSV text and flushes it to the console
// or an append-only file.
package sink
