package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/metadata"
	"curator/internal/report"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var topN int
	var excludeDirs []string

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory and summarize its contents",
		Long: `Scan walks the directory tree, extracts per-file metadata, and prints
an aggregate summary: totals, a breakdown by MIME type, and the largest
files. Use --output to also write the plain-text report to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.runLogger(cfg)
			if err != nil {
				return err
			}
			runCtx := ctx.operationContext(cmd)

			limit := cfg.Scan.ReportTopN
			if cmd.Flags().Changed("top") {
				limit = topN
			}
			builder := report.Builder{
				TopN:        limit,
				ExcludeDirs: append(append([]string(nil), cfg.Scan.ExcludeDirs...), excludeDirs...),
				Logger:      logger,
			}
			rep, err := builder.Build(runCtx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, rep)

			if outputPath != "" {
				target, err := config.ExpandPath(outputPath)
				if err != nil {
					return fmt.Errorf("resolve report path: %w", err)
				}
				if err := rep.WriteFile(target); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(out, "\nReport written to %s\n", target)
			}

			return ctx.withCatalog(cfg, func(store *catalog.Store) error {
				if store == nil {
					return nil
				}
				run, err := store.SaveReport(runCtx, rep)
				if err != nil {
					return fmt.Errorf("record scan run: %w", err)
				}
				fmt.Fprintf(out, "\nRecorded scan run %s\n", run.RunID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the plain-text report to this file")
	cmd.Flags().IntVar(&topN, "top", 0, "How many of the largest files to list")
	cmd.Flags().StringSliceVar(&excludeDirs, "exclude", nil, "Directory names to skip (repeatable)")
	return cmd
}

func printReport(out io.Writer, rep *report.Report) {
	fmt.Fprintf(out, "Scanned %s in %s\n", rep.Root, rep.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Total files: %d (%s)\n", rep.FileCount, metadata.FormatSize(rep.TotalSizeBytes))
	if rep.SkippedFiles > 0 {
		fmt.Fprintf(out, "Unreadable files skipped: %d\n", rep.SkippedFiles)
	}
	if !rep.OldestModified.IsZero() {
		fmt.Fprintf(out, "Modified between %s and %s\n",
			rep.OldestModified.Format("2006-01-02"),
			rep.NewestModified.Format("2006-01-02"))
	}
	if rep.Disk.TotalBytes > 0 {
		fmt.Fprintf(out, "Volume: %s free of %s\n",
			metadata.FormatSize(int64(rep.Disk.FreeBytes)),
			metadata.FormatSize(int64(rep.Disk.TotalBytes)))
	}

	if len(rep.TypeCounts) > 0 {
		rows := make([][]string, 0, len(rep.TypeCounts))
		for _, tc := range rep.TypeCounts {
			rows = append(rows, []string{
				tc.MIMEType,
				strconv.Itoa(tc.Count),
				metadata.FormatSize(tc.TotalBytes),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Type", "Files", "Size"}, rows, 1, 2))
	}

	if len(rep.Largest) > 0 {
		rows := make([][]string, 0, len(rep.Largest))
		for _, lf := range rep.Largest {
			rows = append(rows, []string{metadata.FormatSize(lf.SizeBytes), lf.Path})
		}
		fmt.Fprintln(out, renderTable([]string{"Size", "Largest Files"}, rows, 0))
	}
}
