package metadata

import (
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"curator/internal/scan"
)

// MIMEUnknown is reported when no MIME type can be resolved for a file.
const MIMEUnknown = "unknown"

// mimeOverrides covers common archive types that the platform registry misses
// or reports inconsistently across systems.
var mimeOverrides = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".heic": "image/heic",
	".heif": "image/heif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".json": "application/json",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".toml": "application/toml",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".xml":  "application/xml",
}

// Snapshot is an immutable record of a file's attributes at extraction time.
type Snapshot struct {
	Path       string
	Name       string
	Directory  string
	Extension  string
	SizeBytes  int64
	MIMEType   string
	CreatedAt  time.Time
	ModifiedAt time.Time
	// CapturedAt is the EXIF capture timestamp for image files. Zero when
	// the file carries no usable EXIF data or image dates are disabled.
	CapturedAt time.Time
}

// Extractor derives snapshots from files on disk.
type Extractor struct {
	// ReadImageDates opens image files a second time to pull the EXIF
	// capture timestamp into Snapshot.CapturedAt.
	ReadImageDates bool
}

// Extract stats path and returns its snapshot. The target must exist at call
// time; a missing path reports scan.ErrNotFound.
func (e Extractor) Extract(path string) (Snapshot, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return Snapshot{}, scan.Wrap(scan.ErrInvalidArgument, "extract", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, scan.Wrap(scan.ErrNotFound, "extract", abs, err)
		}
		return Snapshot{}, scan.Wrap(scan.ErrUnreadable, "extract", abs, err)
	}
	if info.IsDir() {
		return Snapshot{}, scan.Wrap(scan.ErrInvalidArgument, "extract", abs+" is a directory", nil)
	}
	return e.FromInfo(abs, info), nil
}

// FromInfo builds a snapshot from an already-statted file, sparing a second
// stat during walks.
func (e Extractor) FromInfo(path string, info fs.FileInfo) Snapshot {
	name := filepath.Base(path)
	snap := Snapshot{
		Path:       path,
		Name:       name,
		Directory:  filepath.Dir(path),
		Extension:  strings.ToLower(filepath.Ext(name)),
		SizeBytes:  info.Size(),
		MIMEType:   TypeByName(name),
		ModifiedAt: info.ModTime(),
	}
	snap.CreatedAt = createdAt(info)
	if e.ReadImageDates && exifCandidate(snap.Extension) {
		if captured, err := captureTime(path); err == nil {
			snap.CapturedAt = captured
		}
	}
	return snap
}

// BaseName returns the file name without its extension.
func (s Snapshot) BaseName() string {
	return strings.TrimSuffix(s.Name, filepath.Ext(s.Name))
}

// TypeByName resolves a MIME type from a file name's extension, consulting the
// override table first and the platform registry second. Unresolvable names
// report MIMEUnknown.
func TypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return MIMEUnknown
	}
	if t, ok := mimeOverrides[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		// TypeByExtension may append charset parameters.
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return strings.TrimSpace(t)
	}
	return MIMEUnknown
}

// createdAt reads the inode change time where the platform exposes it and
// falls back to the modification time elsewhere.
func createdAt(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
