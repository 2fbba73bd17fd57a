package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"applicantreview/internal/config"
	"applicantreview/internal/logging"
)

// commandContext carries the configuration shared by every subcommand.
type commandContext struct {
	cfg    *config.AppConfig
	logger *slog.Logger
}

func (c *commandContext) load() {
	c.cfg = config.Load()
	c.logger = logging.New(os.Stdout, c.cfg.Location())
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "applicant-review",
		Short:         "Applicant review API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx.cfg, ctx.logger)
		},
	}

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newMailTestCommand(ctx))

	return rootCmd
}
