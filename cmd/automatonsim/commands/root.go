package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/geange/automata-sim/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg = config.Default()
)

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "automatonsim",
		Short: "Simulate pushdown automata and epsilon-NFAs",
		Long: `automatonsim runs a deterministic pushdown automaton or an
epsilon-NFA over input sequences and prints the configuration trace.

Definitions are plain text, one field per line:
  dpda: header, states, symbols, stack symbols, accept states,
        start state, start stack symbol, transitions...
  enfa: header, states, symbols, accept states, start state,
        transitions...`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			configureLogging(cfg.Logging)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every transition")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newTestCommand())

	return rootCmd
}

func configureLogging(lc config.LoggingConfig) {
	if lc.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	// LOG_LEVEL wins over the built-in default but not over a config file.
	if configPath != "" || os.Getenv("LOG_LEVEL") == "" {
		zerolog.SetGlobalLevel(lc.ZerologLevel())
	}
	if verbose && zerolog.GlobalLevel() > zerolog.DebugLevel {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func traceEvents() bool {
	return verbose || cfg.Logging.TraceEvents
}
