package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/archive"
	"curator/internal/metadata"
	"curator/internal/textutil"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show extracted metadata for a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			extractor := metadata.Extractor{ReadImageDates: cfg.Organize.ReadImageDates}
			snap, err := extractor.Extract(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, archive.DisplayTitle(snap.Name))
			printField(out, "Path", snap.Path)
			printField(out, "Size", fmt.Sprintf("%s (%d bytes)", metadata.FormatSize(snap.SizeBytes), snap.SizeBytes))
			printField(out, "MIME type", snap.MIMEType)
			printField(out, "Extension", snap.Extension)
			printField(out, "Created", formatTimestamp(snap.CreatedAt))
			printField(out, "Modified", formatTimestamp(snap.ModifiedAt))
			if !snap.CapturedAt.IsZero() {
				printField(out, "Captured", formatTimestamp(snap.CapturedAt))
			}

			fmt.Fprintln(out, "\nGroup keys by field:")
			for _, field := range metadata.Fields() {
				printField(out, string(field), textutil.GroupKey(snap.FieldValue(field)))
			}
			return nil
		},
	}
}

func printField(out io.Writer, name, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(out, "  %-14s %s\n", name+":", value)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
