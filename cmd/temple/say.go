package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Comcast/temple/sio"

	"github.com/spf13/cobra"
)

// addSourceFlags adds the flags that say where dicta and spelling
// help come from.
func addSourceFlags(cmd *cobra.Command, s *sources) {
	fs := cmd.Flags()
	fs.StringSliceVarP(&s.filenames, "dicta", "d", nil, "library files, in order")
	fs.StringVar(&s.db, "db", "", "library store (BoltDB file)")
	fs.StringSliceVar(&s.stored, "stored", nil, "names of stored libraries to use after the files")
	fs.StringSliceVar(&s.corrections, "corrections", nil, "YAML tables of corrections")
	fs.StringSliceVar(&s.lexicons, "lexicon", nil, "word lists for spelling correction")
	fs.IntVar(&s.maxDistance, "max-distance", 0, "maximum edit distance for lexicon suggestions")
	fs.Float64Var(&s.weight, "rescue-weight", 1, "weight for retries after spelling correction")
}

// service makes a Service from the sources.
func (a *app) service(ctx context.Context, s *sources) (*sio.Service, error) {
	ds, err := s.loadDicta(ctx, a.log())
	if err != nil {
		return nil, err
	}
	strategy, err := s.strategy(a.log())
	if err != nil {
		return nil, err
	}
	svc := sio.NewService(ds)
	svc.Strategy = strategy
	svc.Logger = a.log()
	return svc, nil
}

func newSayCmd(a *app) *cobra.Command {
	var (
		s      sources
		pretty bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "say TEXT...",
		Short: "Process one utterance and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, err := a.service(ctx, &s)
			if err != nil {
				return err
			}
			svc.Limit = limit
			if a.verbose {
				svc.Receiver = &sio.LogReceiver{Logger: a.log()}
			}

			r, err := svc.Process(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if pretty {
				fmt.Fprintln(cmd.OutOrStdout(), sio.JSON(r))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), sio.JS(r))
			}
			return nil
		},
	}

	addSourceFlags(cmd, &s)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "multi-line JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum tasks (zero means no limit)")

	return cmd
}
