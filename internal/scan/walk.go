package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one regular file reached during a walk.
type Entry struct {
	Path string
	Info fs.FileInfo
}

// Skip records a path passed over during a walk together with the classified
// reason.
type Skip struct {
	Path   string
	Reason error
}

// Result summarizes a completed walk.
type Result struct {
	Visited int
	Skips   []Skip
}

// Options narrow a walk. The zero value visits every regular file under the
// root, hidden ones included.
type Options struct {
	// SkipHidden drops entries whose base name starts with a dot.
	SkipHidden bool
	// Extensions limits visits to files with one of these extensions
	// (leading dot optional, case-insensitive). Empty means no filter.
	Extensions []string
	// MinSizeBytes drops files smaller than this many bytes.
	MinSizeBytes int64
	// ExcludeDirs names directories (by base name) whose subtrees are
	// skipped entirely.
	ExcludeDirs []string
}

// VisitFunc receives each entry in traversal order. Returning an error stops
// the walk and surfaces that error to the caller.
type VisitFunc func(entry Entry) error

// ValidateRoot resolves root to an absolute path and confirms it names an
// existing directory.
func ValidateRoot(root string) (string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return "", Wrap(ErrInvalidArgument, "validate root", "path is empty", nil)
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", Wrap(ErrInvalidArgument, "validate root", trimmed, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", Wrap(ErrNotFound, "validate root", abs, err)
		}
		return "", Wrap(ErrUnreadable, "validate root", abs, err)
	}
	if !info.IsDir() {
		return "", Wrap(ErrNotDirectory, "validate root", abs, nil)
	}
	return abs, nil
}

// Walk visits every regular file under root in lexical path order. Symlinks
// and other non-regular entries are never followed or visited. Unreadable
// files and subtrees are recorded as skips; the walk continues past them.
// Cancellation is checked once per entry.
func Walk(ctx context.Context, root string, opts Options, visit VisitFunc) (Result, error) {
	var res Result
	abs, err := ValidateRoot(root)
	if err != nil {
		return res, err
	}
	exclude := stringSet(opts.ExcludeDirs)
	exts := extensionSet(opts.Extensions)
	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			res.Skips = append(res.Skips, Skip{Path: path, Reason: Wrap(ErrUnreadable, "walk", "", err)})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == abs {
				return nil
			}
			if _, drop := exclude[name]; drop {
				return filepath.SkipDir
			}
			if opts.SkipHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.SkipHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if len(exts) > 0 {
			if _, ok := exts[strings.ToLower(filepath.Ext(name))]; !ok {
				return nil
			}
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			res.Skips = append(res.Skips, Skip{Path: path, Reason: Wrap(ErrUnreadable, "stat", "", infoErr)})
			return nil
		}
		if opts.MinSizeBytes > 0 && info.Size() < opts.MinSizeBytes {
			return nil
		}
		if err := visit(Entry{Path: path, Info: info}); err != nil {
			return err
		}
		res.Visited++
		return nil
	})
	if walkErr != nil {
		return res, walkErr
	}
	return res, nil
}

// Enumerate snapshots the files a walk would visit before anything mutates
// the tree, so callers can move entries without perturbing their own
// traversal.
func Enumerate(ctx context.Context, root string, opts Options) ([]Entry, Result, error) {
	entries := make([]Entry, 0, 64)
	res, err := Walk(ctx, root, opts, func(entry Entry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, res, err
	}
	return entries, res, nil
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func extensionSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		set[v] = struct{}{}
	}
	return set
}
