// Package main is a command-line tool for temple libraries: match
// patterns, process utterances, document libraries, and manage a
// library store.
//
//	temple say -d libraries/smalltalk.yaml "Hello there. What is a good dog?"
//	temple run -d libraries/smalltalk.yaml --lexicon libraries/words.txt
//	temple match -p 'what is +:thing' "What is a good dog?"
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds what the commands share.
type app struct {
	verbose bool
	logger  *zap.Logger
	in      io.Reader
	out     io.Writer
}

func (a *app) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "temple",
		Short: "Template matching over text",
		Long: `temple matches text against libraries of dicta.

A dictum is a pattern with a template.  Each sentence of an utterance
is tried against each dictum in order until one matches, and the
template's expansion is the output for that sentence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.OutputPaths = []string{"stderr"}
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.SetOut(a.out)

	root.AddCommand(
		newMatchCmd(a),
		newSayCmd(a),
		newRunCmd(a),
		newDocCmd(a),
		newExpectCmd(a),
		newStoreCmd(a),
	)

	return root
}

func main() {
	a := &app{
		in:  os.Stdin,
		out: os.Stdout,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
