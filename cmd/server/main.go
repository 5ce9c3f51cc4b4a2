package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the server CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "campus-social API server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newServeCommand(), newMigrateCommand())
	return cmd
}
