package organizer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"curator/internal/events"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/scan"
	"curator/internal/textutil"
)

// Move records one completed relocation.
type Move struct {
	Source      string
	Destination string
	GroupKey    string
	SizeBytes   int64
}

// Failure records one file the organizer could not relocate.
type Failure struct {
	Path   string
	Reason error
}

// Outcome reports everything a single Organize call did. Failures never
// cancel the rest of the batch, so both lists can be non-empty at once.
type Outcome struct {
	Root      string
	Field     metadata.Field
	Moves     []Move
	Failures  []Failure
	Unchanged int
	Elapsed   time.Duration
}

// Organizer groups files into subfolders named after a metadata field value.
type Organizer struct {
	// Formats, when non-empty, limits organizing to files with one of these
	// extensions (leading dot optional). Everything else is left untouched.
	Formats []string

	extractor metadata.Extractor
	logger    *slog.Logger
	events    events.Sink
}

// NewOrganizer constructs an organizer. A nil logger or sink degrades to a
// silent implementation.
func NewOrganizer(extractor metadata.Extractor, logger *slog.Logger, sink events.Sink) *Organizer {
	if sink == nil {
		sink = events.Nop()
	}
	return &Organizer{
		extractor: extractor,
		logger:    logging.NewComponentLogger(logger, "organizer"),
		events:    sink,
	}
}

// Organize enumerates every regular file under root (hidden files excluded),
// derives each file's group key from field, and moves it into
// root/<group_key>/. The enumeration completes before the first move, so
// moves never perturb the traversal. An unknown field name reports
// scan.ErrInvalidArgument before anything is touched.
func (o *Organizer) Organize(ctx context.Context, root, field string) (*Outcome, error) {
	started := time.Now()
	parsed, err := metadata.ParseField(field)
	if err != nil {
		return nil, err
	}
	abs, err := scan.ValidateRoot(root)
	if err != nil {
		return nil, err
	}

	entries, walkRes, err := scan.Enumerate(ctx, abs, scan.Options{SkipHidden: true, Extensions: o.Formats})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Root: abs, Field: parsed}
	for _, skip := range walkRes.Skips {
		outcome.Failures = append(outcome.Failures, Failure{Path: skip.Path, Reason: skip.Reason})
	}

	o.logger.Info("organizing files",
		logging.String("root", abs),
		logging.String("field", string(parsed)),
		logging.Int("files", len(entries)))

	created := make(map[string]struct{})
	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			outcome.Elapsed = time.Since(started)
			return outcome, ctxErr
		}
		snap := o.extractor.FromInfo(entry.Path, entry.Info)
		key := textutil.GroupKey(snap.FieldValue(parsed))
		destDir := filepath.Join(abs, key)

		if filepath.Dir(entry.Path) == destDir {
			outcome.Unchanged++
			continue
		}

		if _, ok := created[destDir]; !ok {
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				o.recordFailure(ctx, outcome, entry.Path, scan.Wrap(scan.ErrUnreadable, "create group folder", destDir, err))
				continue
			}
			created[destDir] = struct{}{}
		}

		dest, err := fileutil.NextAvailablePath(destDir, snap.Name)
		if err != nil {
			o.recordFailure(ctx, outcome, entry.Path, scan.Wrap(scan.ErrUnreadable, "resolve destination", destDir, err))
			continue
		}
		if err := fileutil.Move(entry.Path, dest); err != nil {
			o.recordFailure(ctx, outcome, entry.Path, scan.Wrap(scan.ErrUnreadable, "move file", dest, err))
			continue
		}

		outcome.Moves = append(outcome.Moves, Move{
			Source:      entry.Path,
			Destination: dest,
			GroupKey:    key,
			SizeBytes:   entry.Info.Size(),
		})
		o.events.FileMoved(ctx, entry.Path, dest, key)
		o.logger.Debug("moved file",
			logging.String("source", entry.Path),
			logging.String("destination", dest),
			logging.String("group", key))
	}

	outcome.Elapsed = time.Since(started)
	o.events.OperationCompleted(ctx, "organize", len(outcome.Moves), len(outcome.Failures), outcome.Elapsed)
	o.logger.Info("organization complete",
		logging.Int("moved", len(outcome.Moves)),
		logging.Int("unchanged", outcome.Unchanged),
		logging.Int("failed", len(outcome.Failures)))
	return outcome, nil
}

func (o *Organizer) recordFailure(ctx context.Context, outcome *Outcome, path string, reason error) {
	outcome.Failures = append(outcome.Failures, Failure{Path: path, Reason: reason})
	o.events.MoveFailed(ctx, path, reason)
	o.logger.Warn("failed to organize file",
		logging.String("path", path),
		logging.Error(reason))
}
