package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/dedupe"
	"curator/internal/events"
	"curator/internal/metadata"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var deleteDupes bool
	var quarantineDupes bool
	var fastTriage bool
	var algoName string
	var minSize int64
	var excludeDirs []string

	cmd := &cobra.Command{
		Use:   "dupes <directory>",
		Short: "Find duplicate files by content checksum",
		Long: `Dupes hashes every candidate file under the directory and reports
byte-identical pairs. The first copy encountered in traversal order is
always kept. Pass --delete to remove duplicates or --quarantine to move
them into the configured quarantine directory; with neither, duplicates
are only listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deleteDupes && quarantineDupes {
				return errors.New("--delete and --quarantine are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.runLogger(cfg)
			if err != nil {
				return err
			}
			runCtx := ctx.operationContext(cmd)

			name := cfg.Dupes.Algorithm
			if cmd.Flags().Changed("algo") {
				name = algoName
			}
			algo, err := dedupe.ParseAlgorithm(name)
			if err != nil {
				return err
			}

			fast := cfg.Dupes.FastTriage
			if cmd.Flags().Changed("fast") {
				fast = fastTriage
			}
			floor := cfg.Scan.MinSizeBytes
			if cmd.Flags().Changed("min-size") {
				floor = minSize
			}
			quarantineDir := ""
			if quarantineDupes {
				quarantineDir = cfg.Paths.QuarantineDir
				if quarantineDir == "" {
					return errors.New("no quarantine directory configured")
				}
			}

			finder := dedupe.Finder{
				Algorithm:     algo,
				ChunkSize:     cfg.Dupes.ChunkSizeBytes,
				FastTriage:    fast,
				Delete:        deleteDupes,
				QuarantineDir: quarantineDir,
				MinSizeBytes:  floor,
				ExcludeDirs:   append(append([]string(nil), cfg.Scan.ExcludeDirs...), excludeDirs...),
				Logger:        logger,
				Events:        events.NewLogSink(logger),
			}
			res, err := finder.Find(runCtx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Pairs) == 0 {
				fmt.Fprintf(out, "No duplicates among %d files (%d hashed, %s read) in %s\n",
					res.FilesScanned, res.FilesHashed,
					metadata.FormatSize(res.BytesHashed), res.Elapsed.Round(time.Millisecond))
			} else {
				rows := make([][]string, 0, len(res.Pairs))
				for _, pair := range res.Pairs {
					rows = append(rows, []string{
						relTo(res.Root, pair.Duplicate),
						relTo(res.Root, pair.Original),
						metadata.FormatSize(pair.SizeBytes),
						pairDisposition(pair),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Duplicate", "Original", "Size", "Action"}, rows, 2))
				fmt.Fprintf(out, "%d duplicate pairs among %d files, %s reclaimable (%d hashed in %s)\n",
					len(res.Pairs), res.FilesScanned,
					metadata.FormatSize(res.ReclaimableBytes),
					res.FilesHashed, res.Elapsed.Round(time.Millisecond))
			}
			if len(res.Skips) > 0 {
				fmt.Fprintf(out, "Skipped %d unreadable files\n", len(res.Skips))
			}

			return ctx.withCatalog(cfg, func(store *catalog.Store) error {
				if store == nil {
					return nil
				}
				run, err := store.SaveDedupe(runCtx, res, algo)
				if err != nil {
					return fmt.Errorf("record dupes run: %w", err)
				}
				fmt.Fprintf(out, "\nRecorded dupes run %s\n", run.RunID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&deleteDupes, "delete", false, "Delete each confirmed duplicate")
	cmd.Flags().BoolVar(&quarantineDupes, "quarantine", false, "Move duplicates into the quarantine directory")
	cmd.Flags().BoolVar(&fastTriage, "fast", false, "Pre-filter by size and cheap hash before full checksums")
	cmd.Flags().StringVar(&algoName, "algo", "", "Checksum algorithm (sha256 or sha512)")
	cmd.Flags().Int64Var(&minSize, "min-size", 0, "Ignore files smaller than this many bytes")
	cmd.Flags().StringSliceVar(&excludeDirs, "exclude", nil, "Directory names to skip (repeatable)")
	return cmd
}

func pairDisposition(pair dedupe.Pair) string {
	switch {
	case pair.Deleted:
		return "deleted"
	case pair.QuarantinedTo != "":
		return "quarantined"
	case pair.Hardlink:
		return "hardlink"
	default:
		return "kept"
	}
}

// relTo shortens path for display when it sits under root.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "" || rel[0] == '.' {
		return path
	}
	return rel
}
