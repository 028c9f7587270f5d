package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zuup",
		Short: "Watch your reviews in zuul and publish releases",
		Long: `zuup shows where your Gerrit reviews stand in the zuul pipelines,
with per-job progress, and drives the tag-verify-build release flow.

Without a subcommand it behaves like "zuup status".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newStatusCmd())
	root.AddCommand(newReleaseCmd())

	return root
}
