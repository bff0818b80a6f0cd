package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"curator/internal/logging"
)

// Sink receives structured progress events from archive operations.
type Sink interface {
	DuplicateFound(ctx context.Context, original, duplicate string, sizeBytes int64)
	DuplicateResolved(ctx context.Context, duplicate, disposition string)
	FileMoved(ctx context.Context, source, destination, groupKey string)
	MoveFailed(ctx context.Context, source string, err error)
	ItemAdded(ctx context.Context, collection, item string)
	OperationCompleted(ctx context.Context, kind string, processed, failed int, elapsed time.Duration)
}

// Nop returns a sink that drops every event.
func Nop() Sink { return nopSink{} }

type nopSink struct{}

func (nopSink) DuplicateFound(context.Context, string, string, int64) {}
func (nopSink) DuplicateResolved(context.Context, string, string) {}
func (nopSink) FileMoved(context.Context, string, string, string) {}
func (nopSink) MoveFailed(context.Context, string, error) {}
func (nopSink) ItemAdded(context.Context, string, string) {}
func (nopSink) OperationCompleted(context.Context, string, int, int, time.Duration) {}

// NewLogSink publishes events through the supplied logger. A nil logger
// degrades to the noop sink.
func NewLogSink(logger *slog.Logger) Sink {
	if logger == nil {
		return nopSink{}
	}
	return &logSink{logger: logger}
}

type logSink struct {
	logger *slog.Logger
}

func (s *logSink) DuplicateFound(ctx context.Context, original, duplicate string, sizeBytes int64) {
	s.logger.InfoContext(ctx, "duplicate found",
		logging.String("original", original),
		logging.String("duplicate", duplicate),
		logging.Int64("size_bytes", sizeBytes))
}

func (s *logSink) DuplicateResolved(ctx context.Context, duplicate, disposition string) {
	s.logger.InfoContext(ctx, "duplicate resolved",
		logging.String("duplicate", duplicate),
		logging.String("disposition", disposition))
}

func (s *logSink) FileMoved(ctx context.Context, source, destination, groupKey string) {
	s.logger.InfoContext(ctx, "file moved",
		logging.String("source", source),
		logging.String("destination", destination),
		logging.String("group", groupKey))
}

func (s *logSink) MoveFailed(ctx context.Context, source string, err error) {
	s.logger.WarnContext(ctx, "move failed",
		logging.String("source", source),
		logging.Error(err))
}

func (s *logSink) ItemAdded(ctx context.Context, collection, item string) {
	s.logger.InfoContext(ctx, "item added",
		logging.String("collection", collection),
		logging.String("item", item))
}

func (s *logSink) OperationCompleted(ctx context.Context, kind string, processed, failed int, elapsed time.Duration) {
	s.logger.InfoContext(ctx, "operation completed",
		logging.String("kind", kind),
		logging.Int("processed", processed),
		logging.Int("failed", failed),
		logging.Duration("elapsed", elapsed))
}

// Recorded is one event captured by the memory sink.
type Recorded struct {
	Kind string
	At   time.Time
	Note string
}

// MemorySink collects events for assertions in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Recorded
}

// NewMemorySink returns an empty recorder.
func NewMemorySink() *MemorySink { return &MemorySink{} }

func (m *MemorySink) record(kind, note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Recorded{Kind: kind, At: time.Now(), Note: note})
}

// Events returns a copy of everything recorded so far.
func (m *MemorySink) Events() []Recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Recorded, len(m.events))
	copy(out, m.events)
	return out
}

// Count returns how many events of kind were recorded.
func (m *MemorySink) Count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (m *MemorySink) DuplicateFound(_ context.Context, original, duplicate string, _ int64) {
	m.record("duplicate_found", original+" <- "+duplicate)
}

func (m *MemorySink) DuplicateResolved(_ context.Context, duplicate, disposition string) {
	m.record("duplicate_resolved", duplicate+" "+disposition)
}

func (m *MemorySink) FileMoved(_ context.Context, source, destination, _ string) {
	m.record("file_moved", source+" -> "+destination)
}

func (m *MemorySink) MoveFailed(_ context.Context, source string, _ error) {
	m.record("move_failed", source)
}

func (m *MemorySink) ItemAdded(_ context.Context, collection, item string) {
	m.record("item_added", collection+" <- "+item)
}

func (m *MemorySink) OperationCompleted(_ context.Context, kind string, _, _ int, _ time.Duration) {
	m.record("operation_completed", kind)
}
