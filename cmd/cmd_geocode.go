// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"slices"

	"github.com/mapchat/mapchat/config"
	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <place>...",
	Short: "Geocode place names directly, skipping the language model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if slices.Contains(appConfig.MissingKeys(), "AMAP_API_KEY") {
			return fmt.Errorf("%w: AMAP_API_KEY", config.ErrMissingKeys)
		}

		geocoder, err := newGeocoder(cmd.Context(), appConfig, logger)
		if err != nil {
			return err
		}

		svc := newService(appConfig, nil, geocoder, logger)

		return writeJSON(cmd.OutOrStdout(), svc.Geocode(cmd.Context(), args))
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
