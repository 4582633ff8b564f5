// Package cli is the wdlkit command-line front end: parse, check,
// eval, and serve subcommands over the language front end, the way
// the teacher exposes its own engine via cobra.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wdlkit/wdlkit/internal/config"
	"github.com/wdlkit/wdlkit/internal/logging"
)

var (
	flagConfigPath string
	flagLogLevel   string
	flagLogFormat  string

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the wdlkit CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wdlkit",
		Short: "wdlkit — a WDL parser, type checker, and expression evaluator",
		Long:  "wdlkit parses, type-checks, and evaluates Workflow Description Language documents.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flagConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newParseCmd(),
		newCheckCmd(),
		newEvalCmd(),
		newServeCmd(),
	)

	return root
}
