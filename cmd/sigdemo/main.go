package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AnatoleLucet/sigwatch"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		auto     time.Duration
		logFile  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "sigdemo",
		Short: "Interactive counter driven by signals",
		Long: `sigdemo renders a counter whose values come from signals.

The property counter is plain host state, the signal counter and its
parity are reactive values pushed to the screen by watchers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logFile, logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			rt := sigwatch.NewRuntime(sigwatch.WithLogger(logger))

			_, err = tea.NewProgram(newModel(rt, auto)).Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&auto, "auto", 0, "increment the signal on this interval")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

// newLogger logs to a file only, the terminal belongs to the program.
func newLogger(path, level string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	return cfg.Build()
}
