// Package commands implements the transport command line.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "transport",
		Short:         "Goods transport job service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (searched in the usual locations when empty)")

	rootCmd.AddCommand(
		newServeCommand(&configPath),
		newTokenCommand(&configPath),
		newVersionCommand(),
	)

	return rootCmd
}
