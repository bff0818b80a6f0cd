package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/events"
	"curator/internal/metadata"
	"curator/internal/organizer"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var byField string

	cmd := &cobra.Command{
		Use:   "organize <directory>",
		Short: "Sort files into subfolders by a metadata field",
		Long: `Organize moves every file under the directory into a subfolder named
after the chosen metadata field value (for example text-plain/ when
grouping by mime_type). Name collisions get a numeric suffix; existing
files are never overwritten. Fields: ` + fieldNames() + `.`,
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

			field := cfg.Organize.DefaultField
			if cmd.Flags().Changed("by") {
				field = byField
			}

			extractor := metadata.Extractor{ReadImageDates: cfg.Organize.ReadImageDates}
			org := organizer.NewOrganizer(extractor, logger, events.NewLogSink(logger))
			org.Formats = cfg.Organize.AllowedFormats

			outcome, err := org.Organize(runCtx, args[0], field)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			groups := make(map[string]struct{})
			for _, move := range outcome.Moves {
				groups[move.GroupKey] = struct{}{}
			}
			fmt.Fprintf(out, "Moved %d files into %d groups by %s (%d already in place) in %s\n",
				len(outcome.Moves), len(groups), outcome.Field,
				outcome.Unchanged, outcome.Elapsed.Round(time.Millisecond))

			if len(outcome.Failures) > 0 {
				rows := make([][]string, 0, len(outcome.Failures))
				for _, failure := range outcome.Failures {
					rows = append(rows, []string{relTo(outcome.Root, failure.Path), failure.Reason.Error()})
				}
				fmt.Fprintln(out, renderTable([]string{"Not Moved", "Reason"}, rows))
			}

			return ctx.withCatalog(cfg, func(store *catalog.Store) error {
				if store == nil {
					return nil
				}
				run, err := store.SaveOrganize(runCtx, outcome)
				if err != nil {
					return fmt.Errorf("record organize run: %w", err)
				}
				fmt.Fprintf(out, "\nRecorded organize run %s\n", run.RunID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&byField, "by", "", "Metadata field to group by")
	return cmd
}

func fieldNames() string {
	fields := metadata.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = string(field)
	}
	return strings.Join(names, ", ")
}
