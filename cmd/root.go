package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/internal/logging"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mortgage",
		Short:         "Mortgage amortization calculator",
		Long:          "Compute amortization schedules, PMI and extra payment savings, from the terminal or as an HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text, json); overrides LOG_FORMAT")

	root.AddCommand(
		newServeCmd(opts),
		newCalculateCmd(opts),
		newCompareCmd(opts),
	)
	return root
}

// setup loads configuration and builds a logger writing to logOut.
func (o *rootOptions) setup(logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}

	logger := logging.InitLogger(logging.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: logOut,
	})
	return cfg, logger, nil
}
