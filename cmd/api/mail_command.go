package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"applicantreview/internal/notify"
)

func newMailTestCommand(ctx *commandContext) *cobra.Command {
	var to, name, kind string

	cmd := &cobra.Command{
		Use:   "mail-test",
		Short: "Send a test decision email using the configured SMTP relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := notify.NewFromConfig(ctx.cfg.Mail, ctx.logger, nil)
			if err != nil {
				return err
			}
			if notify.IsNoop(d) {
				return errors.New("mail delivery is not configured: set SMTP_HOST")
			}

			k := notify.ParseKind(kind)
			if err := notify.Send(cmd.Context(), d, k, to, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test %s email sent to %s\n", k, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address")
	cmd.Flags().StringVar(&name, "name", "Applicant", "Recipient display name")
	cmd.Flags().StringVar(&kind, "kind", "approve", "approve, or anything else for a decline")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
