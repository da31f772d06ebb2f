// Package server exposes the optional HTTP monitoring endpoint.
package server
