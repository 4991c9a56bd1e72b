package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netmetric",
		Short: "Application and runtime metrics instrumentation toolkit",
	}

	rootCmd.AddCommand(
		NewMonitorCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
