package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "essay-api",
		Short:         "Essay writing assistant HTTP API",
		Long:          `essay-api serves the essay generation endpoints (titles, thesis statements, introductions, conclusions and full essays) backed by an OpenAI-compatible completion service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configDir)
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory containing config.yaml")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "essay-api %s (built %s)\n", Version, BuildTime)
		},
	})

	return root
}
