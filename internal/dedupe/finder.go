package dedupe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curator/internal/events"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/scan"
)

// Pair records one confirmed duplicate. Original is always the path
// encountered first in traversal order, never the reverse.
type Pair struct {
	Original  string
	Duplicate string
	Hash      string
	SizeBytes int64
	// Hardlink marks duplicates sharing an inode with the original;
	// removing one frees no space.
	Hardlink bool
	// Deleted reports that the duplicate was removed in delete mode.
	Deleted bool
	// QuarantinedTo is where the duplicate landed in quarantine mode.
	QuarantinedTo string
}

// Result aggregates the outcome of one Find call. When Find returns a
// context error the result still describes the work completed so far.
type Result struct {
	Root             string
	Pairs            []Pair
	Skips            []scan.Skip
	FilesScanned     int
	FilesHashed      int
	BytesHashed      int64
	Deleted          int
	Quarantined      int
	ReclaimableBytes int64
	Elapsed          time.Duration
}

// Finder configures duplicate detection over a single tree. The zero value
// scans with the default algorithm and chunk size and leaves duplicates in
// place.
type Finder struct {
	Algorithm  Algorithm
	ChunkSize  int
	FastTriage bool
	// Delete removes each confirmed duplicate right after its pair is
	// recorded. Mutually exclusive with QuarantineDir.
	Delete bool
	// QuarantineDir moves confirmed duplicates aside instead of deleting.
	QuarantineDir string
	MinSizeBytes  int64
	ExcludeDirs   []string
	Logger        *slog.Logger
	Events        events.Sink
}

type indexEntry struct {
	path   string
	device uint64
	inode  uint64
}

// Find walks root in lexical order, hashes candidate files, and reports
// every byte-identical pair. The first-seen copy of any content is never
// deleted or moved.
func (f *Finder) Find(ctx context.Context, root string) (*Result, error) {
	started := time.Now()
	logger := logging.NewComponentLogger(f.Logger, "dedupe")
	sink := f.Events
	if sink == nil {
		sink = events.Nop()
	}
	quarantine := strings.TrimSpace(f.QuarantineDir)
	if f.Delete && quarantine != "" {
		return nil, scan.Wrap(scan.ErrInvalidArgument, "find duplicates", "delete and quarantine are mutually exclusive", nil)
	}
	chunk := f.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	algo := f.Algorithm
	if algo == "" {
		algo = DefaultAlgorithm
	}

	abs, err := scan.ValidateRoot(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("finding duplicates",
		logging.String("root", abs),
		logging.String("algorithm", string(algo)),
		logging.Bool("fast_triage", f.FastTriage))
	res := &Result{Root: abs}

	entries, walkRes, err := scan.Enumerate(ctx, abs, scan.Options{
		MinSizeBytes: f.MinSizeBytes,
		ExcludeDirs:  f.ExcludeDirs,
	})
	if err != nil {
		return nil, err
	}
	res.Skips = append(res.Skips, walkRes.Skips...)

	if quarantine != "" {
		if err := os.MkdirAll(quarantine, 0o755); err != nil {
			return nil, scan.Wrap(scan.ErrUnreadable, "find duplicates", "create quarantine directory", err)
		}
	}

	var survivors []bool
	if f.FastTriage {
		survivors = triage(entries)
		candidates := 0
		for _, keep := range survivors {
			if keep {
				candidates++
			}
		}
		logger.Debug("fast triage complete",
			logging.Int("total", len(entries)),
			logging.Int("candidates", candidates))
	}

	index := make(map[string]indexEntry, len(entries))
	buf := make([]byte, chunk)
	for i, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Elapsed = time.Since(started)
			return res, ctxErr
		}
		res.FilesScanned++
		if survivors != nil && !survivors[i] {
			continue
		}
		digest, stats, err := digestFile(entry.Path, algo, buf)
		if err != nil {
			res.Skips = append(res.Skips, scan.Skip{
				Path:   entry.Path,
				Reason: scan.Wrap(scan.ErrUnreadable, "hash", "", err),
			})
			logger.Warn("skipping unreadable file",
				logging.String("path", entry.Path),
				logging.Error(err))
			continue
		}
		res.FilesHashed++
		res.BytesHashed += stats.size

		first, seen := index[digest]
		if !seen {
			index[digest] = indexEntry{path: entry.Path, device: stats.device, inode: stats.inode}
			continue
		}

		pair := Pair{
			Original:  first.path,
			Duplicate: entry.Path,
			Hash:      digest,
			SizeBytes: stats.size,
			Hardlink:  stats.inode != 0 && stats.device == first.device && stats.inode == first.inode,
		}
		res.Pairs = append(res.Pairs, pair)
		if !pair.Hardlink {
			res.ReclaimableBytes += stats.size
		}
		sink.DuplicateFound(ctx, pair.Original, pair.Duplicate, pair.SizeBytes)

		switch {
		case f.Delete:
			if err := os.Remove(entry.Path); err != nil {
				res.Skips = append(res.Skips, scan.Skip{
					Path:   entry.Path,
					Reason: scan.Wrap(scan.ErrUnreadable, "delete duplicate", "", err),
				})
				continue
			}
			res.Pairs[len(res.Pairs)-1].Deleted = true
			res.Deleted++
			sink.DuplicateResolved(ctx, entry.Path, "deleted")
		case quarantine != "":
			dest, err := fileutil.NextAvailablePath(quarantine, filepath.Base(entry.Path))
			if err == nil {
				err = fileutil.Move(entry.Path, dest)
			}
			if err != nil {
				res.Skips = append(res.Skips, scan.Skip{
					Path:   entry.Path,
					Reason: scan.Wrap(scan.ErrUnreadable, "quarantine duplicate", "", err),
				})
				continue
			}
			res.Pairs[len(res.Pairs)-1].QuarantinedTo = dest
			res.Quarantined++
			sink.DuplicateResolved(ctx, entry.Path, "quarantined")
		}
	}

	res.Elapsed = time.Since(started)
	sink.OperationCompleted(ctx, "dupes", res.FilesScanned, len(res.Skips), res.Elapsed)
	return res, nil
}

// triage flags which entries still need a full digest. A file survives only
// when another file shares both its size and its first-block hash; anything
// else cannot have a byte-identical partner, so skipping it loses no pairs.
func triage(entries []scan.Entry) []bool {
	keep := make([]bool, len(entries))
	bySize := make(map[int64][]int, len(entries))
	for i, entry := range entries {
		size := entry.Info.Size()
		bySize[size] = append(bySize[size], i)
	}
	for _, group := range bySize {
		if len(group) < 2 {
			continue
		}
		byPrefix := make(map[uint64][]int, len(group))
		for _, i := range group {
			pre, err := prefixHash(entries[i].Path)
			if err != nil {
				// Let the full pass classify the read failure.
				keep[i] = true
				continue
			}
			byPrefix[pre] = append(byPrefix[pre], i)
		}
		for _, candidates := range byPrefix {
			if len(candidates) < 2 {
				continue
			}
			for _, i := range candidates {
				keep[i] = true
			}
		}
	}
	return keep
}
