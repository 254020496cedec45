package main

import (
	"fmt"
	"time"

	"github.com/Comcast/temple/interpreters"
	"github.com/Comcast/temple/tools"

	"github.com/spf13/cobra"
)

func newExpectCmd(a *app) *cobra.Command {
	var (
		s       sources
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "expect SESSION...",
		Short: "Check that utterances get the expected outputs",
		Long: `Expect runs each session file's exchanges through the dicta.  An
exchange can give the expected outputs, the names of the dicta that
should generate them, and a guard, which is code that returns true
when the outputs are acceptable.

  exchanges:
    - say: Hello there.
      outputs: ["Hi there!"]
      dicta: [greet]`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx, &s)
			if err != nil {
				return err
			}
			for _, filename := range args {
				session, err := tools.ReadSession(filename)
				if err != nil {
					return err
				}
				session.Interpreters = interpreters.Standard(a.log())
				session.Logger = a.log()
				session.DefaultTimeout = timeout
				if err = session.Run(ctx, svc); err != nil {
					return fmt.Errorf("%s: %w", filename, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d exchanges ok\n", filename, len(session.Exchanges))
			}
			return nil
		},
	}

	addSourceFlags(cmd, &s)
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "limit for each exchange")

	return cmd
}
