package main

import (
	"github.com/okian/lifespan/internal/adapters/console"
	"github.com/spf13/cobra"
)

func newAskCmd(rf *rootFlags) *cobra.Command {
	var attempts int
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer the questionnaire interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService(cmd, rf)
			if err != nil {
				return err
			}
			defer svc.Stop()

			s := console.NewSession(svc, cmd.InOrStdin(), cmd.OutOrStdout(), console.WithMaxAttempts(attempts))
			if _, err := s.Run(cmd.Context()); err != nil {
				return exitError(exitInput, "%v", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", console.DefaultMaxAttempts, "Times a question is asked before giving up")
	return cmd
}
