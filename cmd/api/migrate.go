package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the applicants schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openMigrated(cmd.Context(), ctx.cfg, ctx.logger)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}
