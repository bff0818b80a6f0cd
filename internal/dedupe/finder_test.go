package dedupe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/events"
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

func TestFindReportsOnePairPerDuplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	writeFile(t, filepath.Join(dir, "b.txt"), "hello")
	writeFile(t, filepath.Join(dir, "c.txt"), "world")

	res, err := (&Finder{}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1: %+v", len(res.Pairs), res.Pairs)
	}
	pair := res.Pairs[0]
	if filepath.Base(pair.Original) != "a.txt" || filepath.Base(pair.Duplicate) != "b.txt" {
		t.Fatalf("pair = %q -> %q, want a.txt -> b.txt", pair.Original, pair.Duplicate)
	}
	if pair.Original == pair.Duplicate {
		t.Fatal("self pair reported")
	}
	if res.FilesScanned != 3 {
		t.Fatalf("scanned = %d, want 3", res.FilesScanned)
	}
}

func TestFindOriginalIsFirstInTraversalOrder(t *testing.T) {
	dir := t.TempDir()
	// Lexically "aaa" sorts before "b.txt", so the nested file is seen first.
	writeFile(t, filepath.Join(dir, "aaa", "x.txt"), "same bytes")
	writeFile(t, filepath.Join(dir, "b.txt"), "same bytes")

	res, err := (&Finder{}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(res.Pairs))
	}
	if filepath.Base(res.Pairs[0].Original) != "x.txt" {
		t.Fatalf("original = %q, want nested x.txt first", res.Pairs[0].Original)
	}
}

func TestFindZeroByteFilesAreDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty1"), "")
	writeFile(t, filepath.Join(dir, "empty2"), "")
	writeFile(t, filepath.Join(dir, "empty3"), "")

	res, err := (&Finder{}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(res.Pairs) != 2 {
		t.Fatalf("pairs = %d, want 2 (empty2 and empty3 against empty1)", len(res.Pairs))
	}
	for _, pair := range res.Pairs {
		if filepath.Base(pair.Original) != "empty1" {
			t.Fatalf("original = %q, want empty1 for all pairs", pair.Original)
		}
	}
}

func TestFindDeleteKeepsFirstSeen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	writeFile(t, filepath.Join(dir, "b.txt"), "hello")
	writeFile(t, filepath.Join(dir, "c.txt"), "hello")
	writeFile(t, filepath.Join(dir, "d.txt"), "world")

	sink := events.NewMemorySink()
	res, err := (&Finder{Delete: true, Events: sink}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if res.Deleted != 2 {
		t.Fatalf("deleted = %d, want 2", res.Deleted)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("first-seen original deleted: %v", err)
	}
	for _, name := range []string{"b.txt", "c.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should be deleted, stat err = %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "d.txt")); err != nil {
		t.Fatalf("unique content deleted: %v", err)
	}
	if got := sink.Count("duplicate_resolved"); got != 2 {
		t.Fatalf("resolved events = %d, want 2", got)
	}
}

func TestFindQuarantineMovesDuplicates(t *testing.T) {
	dir := t.TempDir()
	quarantine := filepath.Join(t.TempDir(), "quarantine")
	writeFile(t, filepath.Join(dir, "x", "song.mp3"), "audio-bytes")
	writeFile(t, filepath.Join(dir, "y", "song.mp3"), "audio-bytes")

	res, err := (&Finder{QuarantineDir: quarantine}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if res.Quarantined != 1 {
		t.Fatalf("quarantined = %d, want 1", res.Quarantined)
	}
	pair := res.Pairs[0]
	if pair.QuarantinedTo == "" {
		t.Fatal("QuarantinedTo not recorded")
	}
	if _, err := os.Stat(pair.QuarantinedTo); err != nil {
		t.Fatalf("quarantined file missing: %v", err)
	}
	if _, err := os.Stat(pair.Duplicate); !os.IsNotExist(err) {
		t.Fatalf("duplicate still in place: %v", err)
	}
	if _, err := os.Stat(pair.Original); err != nil {
		t.Fatalf("original disturbed: %v", err)
	}
}

func TestFindDeleteAndQuarantineAreExclusive(t *testing.T) {
	_, err := (&Finder{Delete: true, QuarantineDir: "q"}).Find(context.Background(), t.TempDir())
	if !errors.Is(err, scan.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFindFastTriageMatchesExhaustive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.bin"), "content-one")
	writeFile(t, filepath.Join(dir, "b.bin"), "content-one")
	writeFile(t, filepath.Join(dir, "c.bin"), "content-two")
	writeFile(t, filepath.Join(dir, "d.bin"), "content-2!")
	writeFile(t, filepath.Join(dir, "e.bin"), "unique length here")
	writeFile(t, filepath.Join(dir, "sub", "f.bin"), "content-one")

	exhaustive, err := (&Finder{}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("exhaustive find failed: %v", err)
	}
	fast, err := (&Finder{FastTriage: true}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("fast find failed: %v", err)
	}
	if len(exhaustive.Pairs) != len(fast.Pairs) {
		t.Fatalf("pair counts differ: exhaustive %d, fast %d", len(exhaustive.Pairs), len(fast.Pairs))
	}
	for i := range exhaustive.Pairs {
		if exhaustive.Pairs[i].Original != fast.Pairs[i].Original ||
			exhaustive.Pairs[i].Duplicate != fast.Pairs[i].Duplicate {
			t.Fatalf("pair %d differs: exhaustive %+v, fast %+v", i, exhaustive.Pairs[i], fast.Pairs[i])
		}
	}
	if fast.FilesHashed >= exhaustive.FilesHashed {
		t.Fatalf("triage hashed %d files, exhaustive %d; triage should hash fewer", fast.FilesHashed, exhaustive.FilesHashed)
	}
}

func TestFindHardlinkFlag(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "a.txt")
	writeFile(t, original, "linked content")
	if err := os.Link(original, filepath.Join(dir, "b.txt")); err != nil {
		t.Skipf("hardlinks unsupported: %v", err)
	}

	res, err := (&Finder{}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(res.Pairs))
	}
	if !res.Pairs[0].Hardlink {
		t.Fatal("hardlink pair not flagged")
	}
	if res.ReclaimableBytes != 0 {
		t.Fatalf("reclaimable = %d, want 0 for hardlinks", res.ReclaimableBytes)
	}
}

func TestFindUnreadableFileIsSkippedNotFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "locked.bin"), "secret")
	writeFile(t, filepath.Join(dir, "open1.bin"), "visible")
	writeFile(t, filepath.Join(dir, "open2.bin"), "visible")
	if err := os.Chmod(filepath.Join(dir, "locked.bin"), 0o000); err != nil {
		t.Fatal(err)
	}

	res, err := (&Finder{}).Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("walk aborted on unreadable file: %v", err)
	}
	if len(res.Skips) != 1 {
		t.Fatalf("skips = %d, want 1", len(res.Skips))
	}
	if !errors.Is(res.Skips[0].Reason, scan.ErrUnreadable) {
		t.Fatalf("skip reason = %v, want ErrUnreadable", res.Skips[0].Reason)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("pairs = %d, want the readable duplicates found", len(res.Pairs))
	}
}

func TestFindMissingRoot(t *testing.T) {
	_, err := (&Finder{}).Find(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, scan.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Finder{}).Find(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
