// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mapchat/mapchat/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions are the flags shared by every sub command.
type globalOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	TraceHTTP  bool
	TraceBody  bool
}

var (
	globals globalOptions

	// populated by PersistentPreRunE
	appConfig *config.Config
	logger    *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "mapchat",
	Short: "find the places mentioned in a text and put them on a map",
	Long: `
mapchat asks a language model for the place names mentioned in free text and
resolves each one to coordinates with a geocoding service. It can serve a chat
page with a map, or run the same pipeline from the command line.
`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var Version = "dev"

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{ConfigFile: globals.ConfigFile})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = globals.LogLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = globals.LogFormat
	}

	l, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	appConfig, logger = cfg, l

	return nil
}

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&globals.ConfigFile,
		"config",
		"",
		"Config file (defaults to config.yaml in ., ./config or $HOME/.mapchat)",
	)
	rootCmd.PersistentFlags().StringVar(
		&globals.LogLevel,
		"log-level",
		"info",
		"Log level: debug, info, warn, error",
	)
	rootCmd.PersistentFlags().StringVar(
		&globals.LogFormat,
		"log-format",
		"console",
		"Log format: console or json",
	)
	rootCmd.PersistentFlags().BoolVar(
		&globals.TraceHTTP,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&globals.TraceBody,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
