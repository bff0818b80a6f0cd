// Package events carries structured progress notifications out of archive
// operations without coupling them to any output device.
//
// Operations receive a Sink explicitly instead of printing; the CLI hands
// them a slog-backed sink, tests use the in-memory recorder, and everything
// defaults to the noop sink when callers pass nil. Sinks must tolerate being
// called from the middle of partially failed batches.
package events
