package main

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/phrase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		pattern string
		bench   int
	)

	cmd := &cobra.Command{
		Use:   "match -p PATTERN TEXT...",
		Short: "Show how a pattern aligns with text",
		Long: `Match compiles the pattern and prints each alignment with the text as a
line of JSON.  A pattern can cover several sentences:

  temple match -p '%sentences hello / +:name' 'Hello there. Bob Smith.'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &dicta.Dictum{
				Name:    "match",
				Pattern: pattern,
			}
			if err := d.Compile(context.Background(), nil, nil); err != nil {
				return err
			}

			input, err := (&phrase.SentenceParser{}).Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}

			if 0 < bench {
				var stats runtime.MemStats
				runtime.ReadMemStats(&stats)
				allocs := stats.TotalAlloc
				then := time.Now()
				for i := 0; i < bench; i++ {
					if _, err := d.Match(input); err != nil {
						return err
					}
				}
				elapsed := time.Since(then)
				meanNanos := elapsed.Nanoseconds() / int64(bench)

				runtime.ReadMemStats(&stats)
				allocated := (stats.TotalAlloc - allocs) / uint64(bench)

				a.log().Info("bench",
					zap.Int("iterations", bench),
					zap.Int64("meanNanos", meanNanos),
					zap.Uint64("meanBytes", allocated))
				fmt.Fprintf(cmd.ErrOrStderr(), "%d iterations, %d mean ns/Match, %d mean bytes allocated per Match\n",
					bench, meanNanos, allocated)
			}

			ms, err := d.Match(input)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, m := range ms {
				if err = enc.Encode(m); err != nil {
					return err
				}
			}
			if len(ms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "pattern")
	cmd.Flags().IntVar(&bench, "bench", 0, "number of times to run (and report time)")
	_ = cmd.MarkFlagRequired("pattern")

	return cmd
}
