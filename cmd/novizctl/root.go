package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copyleftdev/noviz/internal/logging"
)

// cli holds state shared by every subcommand.
type cli struct {
	logLevel  string
	logFormat string
	logger    *logging.Logger
}

// zapLogger returns the configured logger, or a discarding one before
// PersistentPreRunE has run.
func (c *cli) zapLogger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger.Zap()
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "novizctl",
		Short: "Step through numerical optimization runs in the terminal",
		Long: `novizctl computes gradient descent and simulated annealing runs on
one-dimensional objective functions and replays them step by step.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewLogger(&logging.Config{
				Level:  c.logLevel,
				Format: c.logFormat,
				Output: "stderr",
			})
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "console", "Log format (json, console)")

	root.AddCommand(newFunctionsCmd(), newMethodsCmd(), newRunCmd(c))
	return root
}
