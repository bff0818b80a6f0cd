// Package report aggregates archive statistics for human consumption: totals,
// type histograms, the largest files, and the disk headroom of the volume
// holding the tree.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/sys/unix"

	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/scan"
)

// DefaultTopN is how many of the largest files a report lists.
const DefaultTopN = 5

// TypeCount is one row of the MIME histogram.
type TypeCount struct {
	MIMEType   string
	Count      int
	TotalBytes int64
}

// LargeFile is one entry of the largest-files list.
type LargeFile struct {
	Path      string
	SizeBytes int64
}

// DiskUsage describes the volume holding the scanned root.
type DiskUsage struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// Report is a point-in-time summary of a directory tree.
type Report struct {
	Root           string
	GeneratedAt    time.Time
	FileCount      int
	TotalSizeBytes int64
	TypeCounts     []TypeCount
	Largest        []LargeFile
	OldestModified time.Time
	NewestModified time.Time
	SkippedFiles   int
	Disk           DiskUsage
	Elapsed        time.Duration
}

// Builder walks a tree and produces Reports.
type Builder struct {
	TopN        int
	ExcludeDirs []string
	Logger      *slog.Logger
}

// Build walks root and aggregates its statistics. Per-file read problems are
// counted, not fatal; disk usage is best effort.
func (b *Builder) Build(ctx context.Context, root string) (*Report, error) {
	started := time.Now()
	logger := logging.NewComponentLogger(b.Logger, "report")
	topN := b.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	abs, err := scan.ValidateRoot(root)
	if err != nil {
		return nil, err
	}

	rep := &Report{Root: abs, GeneratedAt: time.Now()}
	types := make(map[string]*TypeCount)

	res, err := scan.Walk(ctx, abs, scan.Options{ExcludeDirs: b.ExcludeDirs}, func(entry scan.Entry) error {
		rep.FileCount++
		size := entry.Info.Size()
		rep.TotalSizeBytes += size

		mimeType := metadata.TypeByName(entry.Path)
		tc, ok := types[mimeType]
		if !ok {
			tc = &TypeCount{MIMEType: mimeType}
			types[mimeType] = tc
		}
		tc.Count++
		tc.TotalBytes += size

		modified := entry.Info.ModTime()
		if rep.OldestModified.IsZero() || modified.Before(rep.OldestModified) {
			rep.OldestModified = modified
		}
		if modified.After(rep.NewestModified) {
			rep.NewestModified = modified
		}

		rep.Largest = insertLargest(rep.Largest, LargeFile{Path: entry.Path, SizeBytes: size}, topN)
		return nil
	})
	if err != nil {
		return nil, err
	}
	rep.SkippedFiles = len(res.Skips)

	rep.TypeCounts = make([]TypeCount, 0, len(types))
	for _, tc := range types {
		rep.TypeCounts = append(rep.TypeCounts, *tc)
	}
	sort.Slice(rep.TypeCounts, func(i, j int) bool {
		if rep.TypeCounts[i].Count != rep.TypeCounts[j].Count {
			return rep.TypeCounts[i].Count > rep.TypeCounts[j].Count
		}
		return rep.TypeCounts[i].MIMEType < rep.TypeCounts[j].MIMEType
	})

	if usage, err := diskUsage(abs); err == nil {
		rep.Disk = usage
	} else {
		logger.Warn("disk usage unavailable", logging.String("root", abs), logging.Error(err))
	}

	rep.Elapsed = time.Since(started)
	return rep, nil
}

// insertLargest keeps list sorted descending by size with at most limit
// entries.
func insertLargest(list []LargeFile, candidate LargeFile, limit int) []LargeFile {
	pos := sort.Search(len(list), func(i int) bool {
		return list[i].SizeBytes < candidate.SizeBytes
	})
	if pos >= limit {
		return list
	}
	list = append(list, LargeFile{})
	copy(list[pos+1:], list[pos:])
	list[pos] = candidate
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func diskUsage(path string) (DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return DiskUsage{}, err
	}
	bsize := uint64(st.Bsize)
	return DiskUsage{
		TotalBytes: st.Blocks * bsize,
		FreeBytes:  st.Bavail * bsize,
	}, nil
}

// WriteText renders the report as the plain-text summary stored alongside
// archives.
func (r *Report) WriteText(w io.Writer) error {
	var err error
	write := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	write("Archive Report\n")
	write("Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	write("Root: %s\n\n", r.Root)
	write("Total files: %d\n", r.FileCount)
	write("Total size: %s\n", metadata.FormatSize(r.TotalSizeBytes))
	if r.SkippedFiles > 0 {
		write("Unreadable files skipped: %d\n", r.SkippedFiles)
	}
	if !r.OldestModified.IsZero() {
		write("Oldest modification: %s\n", r.OldestModified.Format(time.RFC3339))
		write("Newest modification: %s\n", r.NewestModified.Format(time.RFC3339))
	}
	if r.Disk.TotalBytes > 0 {
		write("Volume: %s free of %s\n",
			metadata.FormatSize(int64(r.Disk.FreeBytes)),
			metadata.FormatSize(int64(r.Disk.TotalBytes)))
	}

	write("\nFiles by type:\n")
	for _, tc := range r.TypeCounts {
		write("  %s: %d (%s)\n", tc.MIMEType, tc.Count, metadata.FormatSize(tc.TotalBytes))
	}

	write("\nTop %d largest files:\n", len(r.Largest))
	for i, lf := range r.Largest {
		write("  %d. %s (%s)\n", i+1, lf.Path, metadata.FormatSize(lf.SizeBytes))
	}
	return err
}

// WriteFile writes the text rendering to path, truncating any previous
// report.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
