package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [directory]",
		Short: "Check permissions, paths, and disk space",
		Long: `Doctor verifies that every configured path is reachable and writable
and that the volume has room to work with. Pass a directory to also
check access and free space for that target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)
			if len(args) == 1 {
				target, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				results = append(results,
					preflight.CheckDirectoryAccess("Target directory", target),
					preflight.CheckDiskSpace("Target disk space", target),
				)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Preflight Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, result := range results {
				if !result.Passed {
					failed++
				}
				fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
			}

			if !preflight.Healthy(results) {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintf(out, "\nAll %d checks passed\n", len(results))
			return nil
		},
	}
}
