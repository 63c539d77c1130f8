// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/mapchat/mapchat/config"
	"github.com/spf13/cobra"
)

var envFile string

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect and bootstrap the environment configuration",
}

var envCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report the required keys that are not set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return checkEnv(cmd.OutOrStdout(), appConfig)
	},
}

var envInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .env template unless one already exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return initEnv(cmd.OutOrStdout(), envFile)
	},
}

func checkEnv(w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "llm provider:      %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "geocoder provider: %s\n", cfg.Geocoder.Provider)

	missing := cfg.MissingKeys()
	if len(missing) == 0 {
		fmt.Fprintln(w, "all required keys are set")

		return nil
	}

	for _, k := range missing {
		fmt.Fprintf(w, "missing: %s\n", k)
	}

	return cfg.Validate()
}

func initEnv(w io.Writer, path string) error {
	err := config.WriteEnvTemplate(path)
	if errors.Is(err, config.ErrEnvFileExists) {
		fmt.Fprintf(w, "%s already exists, leaving it untouched\n", path)

		return nil
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(w, "wrote %s, fill in your API keys\n", path)

	return nil
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envCheckCmd)
	envCmd.AddCommand(envInitCmd)
	envInitCmd.Flags().StringVar(&envFile, "file", ".env", "Path of the file to create")
}
