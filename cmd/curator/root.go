package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var noCatalogFlag bool

	ctx := newCommandContext(&configFlag, &noCatalogFlag)

	rootCmd := &cobra.Command{
		Use:   "curator",
		Short: "Digital archive maintenance from the command line",
		Long: `Curator scans archive directories, reports what they hold, finds and
resolves duplicate files by content checksum, and sorts files into
metadata-derived subfolders. Completed runs are recorded in a local
catalog for later review with 'curator history'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&noCatalogFlag, "no-catalog", false, "Skip recording this run in the catalog")

	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newDupesCommand(ctx))
	rootCmd.AddCommand(newOrganizeCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
