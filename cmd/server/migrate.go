package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create indexes and tables for the configured stores, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.initSchemas(cmd.Context()); err != nil {
				return err
			}
			app.log.Info("migrations completed")
			return nil
		},
	}
}
