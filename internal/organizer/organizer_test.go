package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/events"
	"curator/internal/metadata"
	"curator/internal/scan"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestOrganizer() *Organizer {
	return NewOrganizer(metadata.Extractor{}, nil, nil)
}

func TestOrganizeGroupsByMIMEType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	writeFile(t, filepath.Join(dir, "b.txt"), "hello")
	writeFile(t, filepath.Join(dir, "c.txt"), "world")

	outcome, err := newTestOrganizer().Organize(context.Background(), dir, "mime_type")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if len(outcome.Moves) != 3 {
		t.Fatalf("moves = %d, want 3: %+v", len(outcome.Moves), outcome)
	}
	if len(outcome.Failures) != 0 {
		t.Fatalf("failures = %+v", outcome.Failures)
	}
	group := filepath.Join(dir, "text-plain")
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := os.Stat(filepath.Join(group, name)); err != nil {
			t.Fatalf("%s not in group folder: %v", name, err)
		}
	}
}

func TestOrganizeSecondRunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "b.md"), "b")

	org := newTestOrganizer()
	first, err := org.Organize(context.Background(), dir, "extension")
	if err != nil {
		t.Fatalf("first organize failed: %v", err)
	}
	if len(first.Moves) != 2 {
		t.Fatalf("first run moves = %d, want 2", len(first.Moves))
	}

	second, err := org.Organize(context.Background(), dir, "extension")
	if err != nil {
		t.Fatalf("second organize failed: %v", err)
	}
	if len(second.Moves) != 0 {
		t.Fatalf("second run moved files: %+v", second.Moves)
	}
	if second.Unchanged != 2 {
		t.Fatalf("unchanged = %d, want 2", second.Unchanged)
	}
}

func TestOrganizeResolvesNameCollisions(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "one", "notes.txt")
	second := filepath.Join(dir, "two", "notes.txt")
	writeFile(t, first, "first version")
	writeFile(t, second, "second version")

	outcome, err := newTestOrganizer().Organize(context.Background(), dir, "mime_type")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if len(outcome.Moves) != 2 {
		t.Fatalf("moves = %d, want 2", len(outcome.Moves))
	}
	group := filepath.Join(dir, "text-plain")
	kept, err := os.ReadFile(filepath.Join(group, "notes.txt"))
	if err != nil {
		t.Fatalf("primary name missing: %v", err)
	}
	if string(kept) != "first version" {
		t.Fatalf("first file's bytes changed: %q", kept)
	}
	renamed, err := os.ReadFile(filepath.Join(group, "notes_1.txt"))
	if err != nil {
		t.Fatalf("collision suffix missing: %v", err)
	}
	if string(renamed) != "second version" {
		t.Fatalf("second file's bytes wrong: %q", renamed)
	}
}

func TestOrganizeUnknownGroupForMissingValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clip.mp4"), "not video")

	// No EXIF data ever exists for an mp4, so captured_at is empty.
	outcome, err := newTestOrganizer().Organize(context.Background(), dir, "captured_at")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if len(outcome.Moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(outcome.Moves))
	}
	if _, err := os.Stat(filepath.Join(dir, "Unknown", "clip.mp4")); err != nil {
		t.Fatalf("file not in Unknown folder: %v", err)
	}
}

func TestOrganizeByModifiedDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.log")
	writeFile(t, path, "entry")
	when := time.Date(2023, 7, 14, 10, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}

	_, err := newTestOrganizer().Organize(context.Background(), dir, "modified_at")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2023-07-14", "old.log")); err != nil {
		t.Fatalf("file not grouped by date: %v", err)
	}
}

func TestOrganizeInvalidField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	_, err := newTestOrganizer().Organize(context.Background(), dir, "owner")
	if !errors.Is(err, scan.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	// Nothing may move on a rejected field.
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("file disturbed by invalid request: %v", err)
	}
}

func TestOrganizeMissingRoot(t *testing.T) {
	_, err := newTestOrganizer().Organize(context.Background(), filepath.Join(t.TempDir(), "gone"), "name")
	if !errors.Is(err, scan.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrganizeSkipsHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".secret"), "keep me here")
	writeFile(t, filepath.Join(dir, "shown.txt"), "move me")

	outcome, err := newTestOrganizer().Organize(context.Background(), dir, "mime_type")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if len(outcome.Moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(outcome.Moves))
	}
	if _, err := os.Stat(filepath.Join(dir, ".secret")); err != nil {
		t.Fatalf("hidden file disturbed: %v", err)
	}
}

func TestOrganizeFailureDoesNotHaltBatch(t *testing.T) {
	dir := t.TempDir()
	// A regular file occupies the group folder name for .txt files, so
	// creating that folder fails while other groups keep working.
	writeFile(t, filepath.Join(dir, "text-plain"), "blocker")
	writeFile(t, filepath.Join(dir, "a.txt"), "text")
	writeFile(t, filepath.Join(dir, "b.md"), "markdown")

	sink := events.NewMemorySink()
	org := NewOrganizer(metadata.Extractor{}, nil, sink)
	outcome, err := org.Organize(context.Background(), dir, "mime_type")
	if err != nil {
		t.Fatalf("organize aborted: %v", err)
	}
	if len(outcome.Failures) != 1 {
		t.Fatalf("failures = %d, want 1: %+v", len(outcome.Failures), outcome.Failures)
	}
	if filepath.Base(outcome.Failures[0].Path) != "a.txt" {
		t.Fatalf("unexpected failed file: %+v", outcome.Failures[0])
	}
	if len(outcome.Moves) != 2 {
		t.Fatalf("moves = %d, want 2 (b.md and the blocker file)", len(outcome.Moves))
	}
	if got := sink.Count("move_failed"); got != 1 {
		t.Fatalf("move_failed events = %d, want 1", got)
	}
}

func TestOrganizeFlattensNestedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep", "nested", "doc.pdf"), "pdf?")

	outcome, err := newTestOrganizer().Organize(context.Background(), dir, "extension")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if len(outcome.Moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(outcome.Moves))
	}
	if _, err := os.Stat(filepath.Join(dir, "pdf", "doc.pdf")); err != nil {
		t.Fatalf("nested file not lifted into group: %v", err)
	}
}

func TestOrganizeRespectsFormatFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.txt"), "text")
	writeFile(t, filepath.Join(dir, "skip.bin"), "binary")

	org := newTestOrganizer()
	org.Formats = []string{"txt"}
	outcome, err := org.Organize(context.Background(), dir, "extension")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if len(outcome.Moves) != 1 {
		t.Fatalf("moves = %d, want 1: %+v", len(outcome.Moves), outcome.Moves)
	}
	if _, err := os.Stat(filepath.Join(dir, "skip.bin")); err != nil {
		t.Fatalf("filtered file disturbed: %v", err)
	}
}
