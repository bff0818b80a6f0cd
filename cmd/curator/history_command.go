package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/metadata"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.readCatalog(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunDetail(cmd.Context(), cmd.OutOrStdout(), store, args[0])
			}
			return printRunList(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs to list")
	return cmd
}

func printRunList(cmd *cobra.Command, store *catalog.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded yet in %s\n", store.Path())
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.RunID,
			string(run.Kind),
			run.Root,
			run.FinishedAt.Local().Format("2006-01-02 15:04"),
			strconv.FormatInt(run.FilesScanned, 10),
			strconv.FormatInt(run.ItemsFound, 10),
			strconv.FormatInt(run.Failures, 10),
			metadata.FormatSize(run.Bytes),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Kind", "Root", "Finished", "Files", "Found", "Failed", "Size"},
		rows, 4, 5, 6, 7))

	totals, err := store.Totals(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d runs recorded: %d files scanned, %d items found, %d failures\n",
		totals.Runs, totals.FilesScanned, totals.ItemsFound, totals.Failures)
	return nil
}

func printRunDetail(ctx context.Context, out io.Writer, store *catalog.Store, runID string) error {
	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no recorded run with id %s", runID)
	}

	fmt.Fprintf(out, "Run %s (%s)\n", run.RunID, run.Kind)
	printField(out, "Root", run.Root)
	printField(out, "Started", formatTimestamp(run.StartedAt))
	printField(out, "Finished", formatTimestamp(run.FinishedAt))
	printField(out, "Files scanned", strconv.FormatInt(run.FilesScanned, 10))
	printField(out, "Items found", strconv.FormatInt(run.ItemsFound, 10))
	printField(out, "Failures", strconv.FormatInt(run.Failures, 10))
	printField(out, "Bytes", metadata.FormatSize(run.Bytes))
	printField(out, "Detail", run.Detail)

	switch run.Kind {
	case catalog.KindDupes:
		pairs, err := store.Pairs(ctx, runID)
		if err != nil {
			return err
		}
		if len(pairs) > 0 {
			rows := make([][]string, 0, len(pairs))
			for _, pair := range pairs {
				rows = append(rows, []string{
					pair.Duplicate,
					pair.Original,
					metadata.FormatSize(pair.SizeBytes),
					pair.Disposition,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Duplicate", "Original", "Size", "Action"}, rows, 2))
		}
	case catalog.KindOrganize:
		moves, err := store.Moves(ctx, runID)
		if err != nil {
			return err
		}
		if len(moves) > 0 {
			rows := make([][]string, 0, len(moves))
			for _, move := range moves {
				rows = append(rows, []string{move.Source, move.Destination, move.GroupKey})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Source", "Destination", "Group"}, rows))
		}
	}

	failures, err := store.Failures(ctx, runID)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		rows := make([][]string, 0, len(failures))
		for _, failure := range failures {
			rows = append(rows, []string{failure.Path, failure.Reason})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Failed Path", "Reason"}, rows))
	}
	return nil
}
